package tracking

import "github.com/google/uuid"

// Issuer hands out opaque identifiers for open and click events.
type Issuer interface {
	NewID() string
}

type UUIDIssuer struct{}

func (UUIDIssuer) NewID() string {
	return uuid.NewString()
}

// IssuerFunc adapts a plain function to Issuer.
type IssuerFunc func() string

func (f IssuerFunc) NewID() string {
	return f()
}
