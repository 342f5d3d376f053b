package payment

import "github.com/google/uuid"

const txRefPrefix = "GYM-"

// NewTxRef produces a fresh correlation reference for one payment attempt.
// References are unique with overwhelming probability and URL-safe; a
// collision detected at insert time is handled by generating a new one,
// never by overwriting.
func NewTxRef() string {
	return txRefPrefix + uuid.NewString()
}
