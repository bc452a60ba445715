// Package sdk provides a small HTTP client for a remote noema server.
//
// It covers the ingestion and audit surface: classify fragments, read a
// fragment's decision history, replay a historical decision, and check
// server health.
//
//	client := sdk.New("http://localhost:8080")
//	dec, _ := client.Ingest(ctx, sdk.IngestRequest{
//	    Text:   "spaced repetition beats cramming",
//	    Source: "notes",
//	})
//	history, _ := client.History(ctx, dec.FragmentID)
//	report, _ := client.Replay(ctx, dec.FragmentID)
//
// For embedding the engine in-process instead of talking to a server, use
// the root package github.com/noema-labs/noema.
package sdk
