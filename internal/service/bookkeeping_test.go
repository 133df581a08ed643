package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookkeeping(t *testing.T) {
	var b Bookkeeping
	b.Record("email_tracking", false, nil)
	b.Record("email_history", false, errors.New("insert failed"))

	assert.False(t, b.Consistent())
	assert.Len(t, b.Failed(), 1)
	assert.NoError(t, b.Err(), "non-critical failures never fail the request")

	b.Record("gmail_tokens", true, errors.New("disk full"))
	assert.ErrorContains(t, b.Err(), "gmail_tokens: disk full")
}
