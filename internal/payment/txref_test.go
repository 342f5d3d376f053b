package payment

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewTxRef(t *testing.T) {
	ref := NewTxRef()

	assert.True(t, strings.HasPrefix(ref, "GYM-"))

	_, err := uuid.Parse(strings.TrimPrefix(ref, "GYM-"))
	assert.NoError(t, err)
}

func TestNewTxRef_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := NewTxRef()
		assert.False(t, seen[ref], "duplicate tx_ref %s", ref)
		seen[ref] = true
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusSuccess.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
