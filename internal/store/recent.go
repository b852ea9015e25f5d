package store

import (
	"time"

	"github.com/rcliao/twin-memory/internal/model"
)

// RecentContext returns up to the last maxMessages working-memory messages
// in chronological order.
func (s *Store) RecentContext(maxMessages int) []model.Message {
	if maxMessages <= 0 {
		return []model.Message{}
	}
	start := len(s.working) - maxMessages
	if start < 0 {
		start = 0
	}
	return append([]model.Message{}, s.working[start:]...)
}

// MemoriesByTimeframe returns long-term memories stamped within the last
// days days, boundary included, in insertion order.
func (s *Store) MemoriesByTimeframe(days int) []model.Memory {
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	out := []model.Memory{}
	for _, m := range s.longTerm {
		if !m.Timestamp.Before(cutoff) {
			out = append(out, m)
		}
	}
	return out
}
