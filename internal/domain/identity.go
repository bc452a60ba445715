package domain

import "github.com/google/uuid"

// Identity derivation is content-addressed so that replaying the same input
// reproduces the same fragment and idea identifiers across runs and across
// reimplementations. UUIDv5 over the OID namespace keeps the scheme
// language-neutral.

// FragmentID derives the deterministic fragment identifier from raw text.
// Identical text always maps to the same id.
func FragmentID(text string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(text))
}

// IdeaID derives the deterministic idea identifier from its seed fragment.
func IdeaID(fragmentID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("IDEA:"+fragmentID.String()))
}
