// Package store implements the tiered conversational memory store.
//
// A Store holds three tiers: working memory (recent raw messages), the
// short-term tier (completed interactions) and the long-term tier
// (consolidated memories). A Store does no locking; callers sharing one
// across goroutines must synchronize access themselves.
package store

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/rcliao/twin-memory/internal/consolidate"
	"github.com/rcliao/twin-memory/internal/logging"
	"github.com/rcliao/twin-memory/internal/model"
	"github.com/rcliao/twin-memory/internal/search"
)

const (
	DefaultWorkingCapacity   = 10
	DefaultShortTermCapacity = 50
)

// Store owns the working, short-term and long-term memory tiers.
type Store struct {
	path       string
	workingCap int
	shortCap   int
	working    []model.Message
	shortTerm  []model.Interaction
	longTerm   []model.Memory
	searcher   search.Searcher
	logger     *log.Logger
	now        func() time.Time
	entropy    *ulid.MonotonicEntropy
}

// Option configures a Store.
type Option func(*Store)

// WithWorkingCapacity sets the working memory size (W).
func WithWorkingCapacity(n int) Option {
	return func(s *Store) { s.workingCap = n }
}

// WithShortTermCapacity sets the short-term tier size (S).
func WithShortTermCapacity(n int) Option {
	return func(s *Store) { s.shortCap = n }
}

// WithLogger sets the logger used for consolidation and persistence events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSearcher replaces the substring index used by SearchMemories.
func WithSearcher(sr search.Searcher) Option {
	return func(s *Store) { s.searcher = sr }
}

// New creates an empty store backed by the snapshot at path. The parent
// directory is created if missing; the snapshot itself is not read until
// Load is called.
func New(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:       path,
		workingCap: DefaultWorkingCapacity,
		shortCap:   DefaultShortTermCapacity,
		searcher:   search.Substring{},
		logger:     logging.Nop(),
		now:        time.Now,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	for _, o := range opts {
		o(s)
	}

	if s.workingCap < 1 {
		return nil, fmt.Errorf("working capacity must be positive, got %d", s.workingCap)
	}
	if s.shortCap < 1 {
		return nil, fmt.Errorf("short-term capacity must be positive, got %d", s.shortCap)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}

	s.clear()
	return s, nil
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }

// AddWorkingMessage appends msg to working memory, dropping the oldest
// message once the capacity is exceeded. Dropped messages are discarded.
func (s *Store) AddWorkingMessage(msg model.Message) {
	s.working = append(s.working, msg)
	if len(s.working) > s.workingCap {
		s.working = append(s.working[:0:0], s.working[len(s.working)-s.workingCap:]...)
	}
}

// AddInteraction records a completed exchange in the short-term tier. When
// the tier overflows, its oldest interaction is consolidated into exactly one
// long-term memory before AddInteraction returns.
func (s *Store) AddInteraction(messages []model.Message, ctx model.Fields) (model.Interaction, error) {
	if len(messages) == 0 {
		return model.Interaction{}, ErrInvalidInteraction
	}

	if ctx == nil {
		ctx = model.Fields{}
	}
	ia := cloneInteraction(model.Interaction{
		ID:        s.newID(),
		Messages:  messages,
		Timestamp: s.now(),
		Context:   ctx,
	})
	s.shortTerm = append(s.shortTerm, ia)

	if len(s.shortTerm) > s.shortCap {
		oldest := s.shortTerm[0]
		s.shortTerm = append(s.shortTerm[:0:0], s.shortTerm[1:]...)
		s.consolidate(oldest)
	}

	return cloneInteraction(ia), nil
}

// cloneInteraction copies the slices and maps of ia so callers cannot reach
// the stored record.
func cloneInteraction(ia model.Interaction) model.Interaction {
	ia.Messages = append([]model.Message(nil), ia.Messages...)
	for i := range ia.Messages {
		ia.Messages[i].Metadata = ia.Messages[i].Metadata.Clone()
	}
	ia.Context = ia.Context.Clone()
	return ia
}

func (s *Store) consolidate(ia model.Interaction) {
	mem := consolidate.Consolidate(ia, s.newID())
	s.longTerm = append(s.longTerm, mem)
	s.logger.Debug("consolidated interaction",
		"interaction", ia.ID,
		"memory", mem.ID,
		"importance", mem.Importance,
		"tags", mem.Tags)
}

// ClearWorking empties working memory only, ending the current conversation.
func (s *Store) ClearWorking() {
	s.working = []model.Message{}
}

// ClearAll resets every tier. Intended for administrative resets.
func (s *Store) ClearAll() {
	s.clear()
}

func (s *Store) clear() {
	s.working = []model.Message{}
	s.shortTerm = []model.Interaction{}
	s.longTerm = []model.Memory{}
}

// Working returns a copy of working memory, oldest first.
func (s *Store) Working() []model.Message {
	return append([]model.Message{}, s.working...)
}

// ShortTerm returns a copy of the short-term tier, oldest first.
func (s *Store) ShortTerm() []model.Interaction {
	out := make([]model.Interaction, len(s.shortTerm))
	for i, ia := range s.shortTerm {
		out[i] = cloneInteraction(ia)
	}
	return out
}

// LongTerm returns a copy of the long-term tier in insertion order.
func (s *Store) LongTerm() []model.Memory {
	return append([]model.Memory{}, s.longTerm...)
}
