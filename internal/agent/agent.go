// Package agent orchestrates a chat turn: it feeds the memory store, builds
// the prompt from the profile and recent memories, calls the provider and
// records the exchange.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/rcliao/twin-memory/internal/logging"
	"github.com/rcliao/twin-memory/internal/model"
	"github.com/rcliao/twin-memory/internal/profile"
	"github.com/rcliao/twin-memory/internal/store"
)

const (
	DefaultMaxTokens = 2048

	historyMessages  = 10
	recentMemoryDays = 7
	promptMemories   = 3
	memoryExcerpt    = 100
)

// Agent is the conversational orchestrator. It serializes access to the
// store and profile, so one Agent may serve concurrent requests.
type Agent struct {
	mu          sync.Mutex
	store       *store.Store
	profile     *profile.Profile
	profilePath string
	provider    Provider
	maxTokens   int
	logger      *log.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the agent logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithMaxTokens caps the reply length requested from the provider.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// WithProfilePath makes Save persist the profile alongside the memories.
func WithProfilePath(path string) Option {
	return func(a *Agent) { a.profilePath = path }
}

// New builds an Agent over an already loaded store and profile.
func New(st *store.Store, p *profile.Profile, provider Provider, opts ...Option) *Agent {
	a := &Agent{
		store:     st,
		profile:   p,
		provider:  provider,
		maxTokens: DefaultMaxTokens,
		logger:    logging.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Chat runs one turn and returns the assistant reply. A provider error is
// returned as *ProviderFailure; the user message stays in working memory
// but no interaction is recorded.
func (a *Agent) Chat(ctx context.Context, text string, fields model.Fields) (string, error) {
	a.mu.Lock()
	userMsg, req, err := a.beginTurn(text)
	a.mu.Unlock()
	if err != nil {
		return "", err
	}

	reply, err := a.provider.Complete(ctx, req)
	if err != nil {
		a.logger.Error("provider failed", "err", err)
		return "", &ProviderFailure{Err: err}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.finishTurn(userMsg, reply, fields); err != nil {
		return "", err
	}
	return reply, nil
}

func (a *Agent) beginTurn(text string) (model.Message, Request, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, Request{}, errors.New("message is required")
	}
	userMsg := model.NewMessage(model.RoleUser, text)
	a.store.AddWorkingMessage(userMsg)

	req := Request{
		System:    a.systemPrompt(),
		Messages:  a.history(),
		MaxTokens: a.maxTokens,
	}
	return userMsg, req, nil
}

func (a *Agent) finishTurn(userMsg model.Message, reply string, fields model.Fields) error {
	assistantMsg := model.NewMessage(model.RoleAssistant, reply)
	a.store.AddWorkingMessage(assistantMsg)

	if _, err := a.store.AddInteraction([]model.Message{userMsg, assistantMsg}, fields); err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	if topics := a.profile.LearnFrom(userMsg.Content); len(topics) > 0 {
		a.logger.Debug("learned interests", "topics", topics)
	}
	return nil
}

func (a *Agent) systemPrompt() string {
	var b strings.Builder
	b.WriteString(a.profile.ConversationPrompt())

	recent := a.store.MemoriesByTimeframe(recentMemoryDays)
	if len(recent) > 0 {
		b.WriteString("\n\nRecent important memories:\n")
		if len(recent) > promptMemories {
			recent = recent[:promptMemories]
		}
		for _, m := range recent {
			b.WriteString("- ")
			b.WriteString(excerpt(m.Content, memoryExcerpt))
			b.WriteString("...\n")
		}
	}
	return b.String()
}

// history is the recent working memory minus system messages, which travel
// in Request.System instead.
func (a *Agent) history() []model.Message {
	var out []model.Message
	for _, m := range a.store.RecentContext(historyMessages) {
		if m.Role == model.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
