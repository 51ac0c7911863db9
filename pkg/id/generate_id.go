package id

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewULID returns a lexically sortable identifier, used for artifact names.
func NewULID() string {
	return ulid.Make().String()
}
