package mailer

import (
	"context"

	"github.com/unclebandit/jobseeker-backend/internal/model"
)

// Sender hands a composed message to a transmission provider and returns the
// provider's message id. Implementations never retry.
type Sender interface {
	Send(ctx context.Context, msg *model.Message) (string, error)
	Name() string
}
