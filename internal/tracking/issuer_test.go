package tracking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUIDIssuerUnique(t *testing.T) {
	issuer := UUIDIssuer{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := issuer.NewID()
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
