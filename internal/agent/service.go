package agent

import (
	"fmt"

	"github.com/rcliao/twin-memory/internal/model"
	"github.com/rcliao/twin-memory/internal/profile"
	"github.com/rcliao/twin-memory/internal/store"
)

// Summary describes the profile plus memory tier sizes.
func (a *Agent) Summary() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.store.Stats()
	return a.profile.Summary() +
		fmt.Sprintf("\nInteractions in short-term memory: %d\n", st.ShortTerm) +
		fmt.Sprintf("Long-term memories: %d\n", st.LongTerm)
}

// Stats returns the store statistics.
func (a *Agent) Stats() store.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Stats()
}

// ResetConversation clears working memory; stored interactions and
// memories are kept.
func (a *Agent) ResetConversation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.ClearWorking()
}

// SearchPast returns the content of the best matching long-term memories.
func (a *Agent) SearchPast(query string, maxResults int) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := []string{}
	for _, m := range a.store.SearchMemories(query, maxResults) {
		out = append(out, m.Content)
	}
	return out
}

// Recent returns long-term memories from the last days days.
func (a *Agent) Recent(days int) []model.Memory {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.MemoriesByTimeframe(days)
}

// Profile returns a copy of the current profile.
func (a *Agent) Profile() profile.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile.Clone()
}

// UpdateProfile applies fn to the profile under the agent lock.
func (a *Agent) UpdateProfile(fn func(*profile.Profile)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.profile)
}

// Save persists the memory snapshot and, when configured, the profile.
func (a *Agent) Save() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Save(); err != nil {
		return err
	}
	if a.profilePath != "" {
		if err := a.profile.Save(a.profilePath); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	return nil
}
