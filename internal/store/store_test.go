package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/twin-memory/internal/model"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "memories.json"), opts...)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return s
}

func exchange(user, assistant string) []model.Message {
	return []model.Message{
		model.NewMessage(model.RoleUser, user),
		model.NewMessage(model.RoleAssistant, assistant),
	}
}

func TestAddInteraction(t *testing.T) {
	s := newTestStore(t)

	ia, err := s.AddInteraction(exchange("hi", "hello"), model.Fields{"source": model.String("test")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if ia.ID == "" {
		t.Error("expected non-empty ID")
	}
	if ia.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if len(s.ShortTerm()) != 1 {
		t.Errorf("expected 1 short-term interaction, got %d", len(s.ShortTerm()))
	}
	if len(s.LongTerm()) != 0 {
		t.Errorf("expected no consolidation yet, got %d", len(s.LongTerm()))
	}
}

func TestAddInteraction_Empty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddInteraction(nil, nil)
	if !errors.Is(err, ErrInvalidInteraction) {
		t.Fatalf("expected ErrInvalidInteraction, got %v", err)
	}
	if len(s.ShortTerm()) != 0 {
		t.Error("rejected interaction must not be stored")
	}
}

func TestAddInteraction_CopiesMessages(t *testing.T) {
	s := newTestStore(t)
	msgs := exchange("original", "reply")

	s.AddInteraction(msgs, nil)
	msgs[0].Content = "mutated"

	if got := s.ShortTerm()[0].Messages[0].Content; got != "original" {
		t.Errorf("stored interaction changed with caller slice: %q", got)
	}
}

func TestAddInteraction_CopiesContext(t *testing.T) {
	s := newTestStore(t)
	ctx := model.Fields{
		"k":      model.String("v"),
		"nested": model.Object(model.Fields{"inner": model.Number(1)}),
	}

	s.AddInteraction(exchange("hi", "hello"), ctx)
	ctx["k"] = model.String("mutated")
	inner, _ := ctx["nested"].AsFields()
	inner["inner"] = model.Number(2)

	stored := s.ShortTerm()[0].Context
	if !stored["k"].Equal(model.String("v")) {
		t.Errorf("stored context changed with caller map: %v", stored["k"])
	}
	storedInner, _ := stored["nested"].AsFields()
	if !storedInner["inner"].Equal(model.Number(1)) {
		t.Errorf("stored nested context changed with caller map: %v", storedInner["inner"])
	}
}

func TestAddInteraction_ReturnedCopyIsDetached(t *testing.T) {
	s := newTestStore(t)

	ia, err := s.AddInteraction(exchange("original", "reply"), model.Fields{"k": model.String("v")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	ia.Messages[0].Content = "mutated"
	ia.Context["k"] = model.String("mutated")

	got := s.ShortTerm()[0]
	if got.Messages[0].Content != "original" {
		t.Errorf("stored messages changed through returned interaction: %q", got.Messages[0].Content)
	}
	if !got.Context["k"].Equal(model.String("v")) {
		t.Errorf("stored context changed through returned interaction: %v", got.Context["k"])
	}
}

func TestShortTerm_ReturnsDetachedCopies(t *testing.T) {
	s := newTestStore(t)
	s.AddInteraction(exchange("original", "reply"), nil)

	s.ShortTerm()[0].Messages[0].Content = "mutated"

	if got := s.ShortTerm()[0].Messages[0].Content; got != "original" {
		t.Errorf("stored messages changed through ShortTerm copy: %q", got)
	}
}

func TestShortTermOverflow(t *testing.T) {
	s := newTestStore(t, WithShortTermCapacity(2))

	i1, _ := s.AddInteraction(exchange("first", "one"), nil)
	i2, _ := s.AddInteraction(exchange("second", "two"), nil)
	i3, _ := s.AddInteraction(exchange("third", "three"), nil)

	short := s.ShortTerm()
	if len(short) != 2 {
		t.Fatalf("expected 2 short-term, got %d", len(short))
	}
	if short[0].ID != i2.ID || short[1].ID != i3.ID {
		t.Errorf("expected [I2 I3], got [%s %s]", short[0].ID, short[1].ID)
	}

	long := s.LongTerm()
	if len(long) != 1 {
		t.Fatalf("expected 1 long-term memory, got %d", len(long))
	}
	if !strings.Contains(long[0].Content, "user: first") {
		t.Errorf("expected memory to summarize I1, got %q", long[0].Content)
	}
	if !long[0].Timestamp.Equal(i1.Timestamp) {
		t.Errorf("expected memory timestamp %v, got %v", i1.Timestamp, long[0].Timestamp)
	}
	if long[0].Type != model.TypeConversation {
		t.Errorf("expected type conversation, got %q", long[0].Type)
	}
}

func TestShortTermOverflow_OneMemoryPerEviction(t *testing.T) {
	const capacity = 5
	s := newTestStore(t, WithShortTermCapacity(capacity))

	for i := 0; i < 20; i++ {
		before := len(s.LongTerm())
		s.AddInteraction(exchange(fmt.Sprintf("msg %d", i), "ok"), nil)

		if i >= capacity {
			if n := len(s.ShortTerm()); n != capacity {
				t.Fatalf("after add %d: expected %d short-term, got %d", i, capacity, n)
			}
			if after := len(s.LongTerm()); after != before+1 {
				t.Fatalf("after add %d: expected one new memory, got %d -> %d", i, before, after)
			}
		} else if len(s.LongTerm()) != 0 {
			t.Fatalf("after add %d: unexpected consolidation", i)
		}
	}
}

func TestIDsUnique(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithShortTermCapacity(3), WithClock(func() time.Time { return fixed }))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ia, _ := s.AddInteraction(exchange("x", "y"), nil)
		if seen[ia.ID] {
			t.Fatalf("duplicate interaction id %s", ia.ID)
		}
		seen[ia.ID] = true
	}
	for _, m := range s.LongTerm() {
		if seen[m.ID] {
			t.Fatalf("duplicate memory id %s", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestImportanceAlwaysBounded(t *testing.T) {
	s := newTestStore(t, WithShortTermCapacity(1))
	long := strings.Repeat("word ", 200)
	for i := 0; i < 10; i++ {
		var msgs []model.Message
		for j := 0; j <= i; j++ {
			msgs = append(msgs, model.NewMessage(model.RoleUser, long))
		}
		s.AddInteraction(msgs, nil)
	}
	for _, m := range s.LongTerm() {
		if m.Importance < 0 || m.Importance > 1 {
			t.Fatalf("importance out of range: %v", m.Importance)
		}
	}
}

func TestWorkingMemory(t *testing.T) {
	s := newTestStore(t, WithWorkingCapacity(3))

	for i := 0; i < 5; i++ {
		s.AddWorkingMessage(model.NewMessage(model.RoleUser, fmt.Sprintf("m%d", i)))
		if len(s.Working()) > 3 {
			t.Fatalf("working memory exceeded capacity: %d", len(s.Working()))
		}
	}

	got := s.Working()
	if got[0].Content != "m2" || got[2].Content != "m4" {
		t.Errorf("expected oldest dropped first, got %v", got)
	}
	if len(s.LongTerm()) != 0 || len(s.ShortTerm()) != 0 {
		t.Error("dropped working messages must not reach other tiers")
	}
}

func TestClearWorking(t *testing.T) {
	s := newTestStore(t)
	s.AddWorkingMessage(model.NewMessage(model.RoleUser, "hi"))
	s.AddInteraction(exchange("hi", "hello"), nil)

	s.ClearWorking()

	if len(s.Working()) != 0 {
		t.Error("expected working memory cleared")
	}
	if len(s.ShortTerm()) != 1 {
		t.Error("short-term tier must survive ClearWorking")
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t, WithShortTermCapacity(1))
	s.AddWorkingMessage(model.NewMessage(model.RoleUser, "hi"))
	s.AddInteraction(exchange("a", "b"), nil)
	s.AddInteraction(exchange("c", "d"), nil)

	s.ClearAll()

	if len(s.Working()) != 0 || len(s.ShortTerm()) != 0 || len(s.LongTerm()) != 0 {
		t.Error("expected every tier empty after ClearAll")
	}
}

func TestNew_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "memories.json")
	if _, err := New(path); err != nil {
		t.Fatalf("create store: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Error("expected parent dir to be created")
	}
}

func TestNew_InvalidCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	if _, err := New(path, WithWorkingCapacity(0)); err == nil {
		t.Error("expected error for zero working capacity")
	}
	if _, err := New(path, WithShortTermCapacity(-1)); err == nil {
		t.Error("expected error for negative short-term capacity")
	}
}
