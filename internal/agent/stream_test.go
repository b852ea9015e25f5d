package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Stream) string {
	var b strings.Builder
	for tok := range s.Tokens() {
		b.WriteString(tok)
	}
	return b.String()
}

func TestChatStream(t *testing.T) {
	p := &fakeProvider{tokens: []string{"Hel", "lo", " there"}}
	a, st := newTestAgent(t, p)

	s := a.ChatStream(context.Background(), "hi", nil)
	assert.Equal(t, "Hello there", collect(s))
	require.NoError(t, s.Err())

	short := st.ShortTerm()
	require.Len(t, short, 1)
	assert.Equal(t, "Hello there", short[0].Messages[1].Content)
}

func TestChatStreamProviderFailure(t *testing.T) {
	boom := errors.New("overloaded")
	p := &fakeProvider{tokens: []string{"partial"}, err: boom}
	a, st := newTestAgent(t, p)

	s := a.ChatStream(context.Background(), "hi", nil)
	assert.Equal(t, "partial", collect(s))

	var pf *ProviderFailure
	require.ErrorAs(t, s.Err(), &pf)
	assert.ErrorIs(t, s.Err(), boom)
	assert.Empty(t, st.ShortTerm())
}

func TestChatStreamCancel(t *testing.T) {
	p := &fakeProvider{tokens: []string{"a"}, block: make(chan struct{})}
	a, st := newTestAgent(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	s := a.ChatStream(ctx, "hi", nil)
	assert.Equal(t, "a", <-s.Tokens())
	cancel()

	collect(s)
	assert.ErrorIs(t, s.Err(), context.Canceled)
	assert.Empty(t, st.ShortTerm())
}

func TestChatStreamEmptyMessage(t *testing.T) {
	a, _ := newTestAgent(t, &fakeProvider{})

	s := a.ChatStream(context.Background(), "", nil)
	assert.Empty(t, collect(s))
	assert.Error(t, s.Err())
}

func TestChatStreamManyTokens(t *testing.T) {
	tokens := make([]string, 100)
	for i := range tokens {
		tokens[i] = "x"
	}
	a, _ := newTestAgent(t, &fakeProvider{tokens: tokens})

	s := a.ChatStream(context.Background(), "hi", nil)
	assert.Equal(t, strings.Repeat("x", 100), collect(s))
	assert.NoError(t, s.Err())
}
