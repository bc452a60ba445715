// Package noema provides an embedded Go client for the noema semantic
// fragment clustering engine.
//
// Fragments of text are embedded, compared against existing ideas in the
// same space, and either attached to the closest idea, turned into a new
// idea, or flagged as a merge proposal. Every decision is recorded in an
// append-only ledger and can be replayed later to detect drift.
//
// # Quick start (fully offline)
//
//	client, _ := noema.New(ctx)
//	defer client.Close()
//
//	dec, _ := client.ProcessText(ctx, "a garden that waters itself", "notes", nil)
//	fmt.Println(dec.Action, dec.RuleID)
//
// The default configuration uses the in-memory store and the deterministic
// offline provider, so no external services are required.
//
// # Against Redis with real embeddings
//
//	client, _ := noema.New(ctx,
//	    noema.WithRedis("localhost:6379", ""),
//	    noema.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "", "text-embedding-3-small", "gpt-4o-mini"),
//	)
package noema
