package store

import (
	"github.com/rcliao/twin-memory/internal/model"
)

// SearchMemories returns up to maxResults long-term memories whose content
// contains query, ignoring case and character width, most important first.
// No matches yields an empty slice.
func (s *Store) SearchMemories(query string, maxResults int) []model.Memory {
	return s.searcher.Search(s.longTerm, query, maxResults)
}
