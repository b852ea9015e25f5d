package agent

import (
	"context"
	"fmt"

	"github.com/rcliao/twin-memory/internal/model"
)

// Request is what the orchestrator sends to a language model provider.
type Request struct {
	System    string
	Messages  []model.Message
	MaxTokens int
}

// Provider is the language model behind the twin.
type Provider interface {
	// Complete returns the full assistant reply.
	Complete(ctx context.Context, req Request) (string, error)

	// Stream calls emit for every text fragment as it arrives. A non-nil
	// error from emit stops the stream and is returned.
	Stream(ctx context.Context, req Request, emit func(string) error) error
}

// ProviderFailure marks an error raised by the Provider, as opposed to a
// failure inside the orchestrator. Callers decide how to present it.
type ProviderFailure struct {
	Err error
}

func (e *ProviderFailure) Error() string {
	return fmt.Sprintf("provider: %v", e.Err)
}

func (e *ProviderFailure) Unwrap() error { return e.Err }
