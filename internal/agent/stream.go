package agent

import (
	"context"
	"strings"

	"github.com/rcliao/twin-memory/internal/model"
)

// streamBuffer bounds how far the producer may run ahead of the consumer.
const streamBuffer = 16

// Stream delivers a reply token by token. Tokens is closed when the reply
// completes, fails or the context is cancelled; Err is valid after that.
type Stream struct {
	tokens chan string
	done   chan struct{}
	err    error
}

// Tokens returns the channel of reply fragments.
func (s *Stream) Tokens() <-chan string { return s.tokens }

// Err blocks until the stream finishes and returns its error, if any.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// ChatStream runs one turn like Chat but streams the reply. The exchange
// is recorded only if the provider finishes without error. Consumers must
// drain Tokens or cancel ctx.
func (a *Agent) ChatStream(ctx context.Context, text string, fields model.Fields) *Stream {
	s := &Stream{
		tokens: make(chan string, streamBuffer),
		done:   make(chan struct{}),
	}

	a.mu.Lock()
	userMsg, req, err := a.beginTurn(text)
	a.mu.Unlock()
	if err != nil {
		s.err = err
		close(s.tokens)
		close(s.done)
		return s
	}

	go func() {
		defer close(s.done)
		defer close(s.tokens)

		var full strings.Builder
		err := a.provider.Stream(ctx, req, func(tok string) error {
			full.WriteString(tok)
			select {
			case s.tokens <- tok:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				s.err = ctx.Err()
				return
			}
			a.logger.Error("provider stream failed", "err", err)
			s.err = &ProviderFailure{Err: err}
			return
		}

		a.mu.Lock()
		defer a.mu.Unlock()
		s.err = a.finishTurn(userMsg, full.String(), fields)
	}()

	return s
}
