// Package search implements the linear substring index over long-term memories.
//
// Every query scans all memories, so cost is O(n·m) in the number of memories
// and their content length. That is fine for a single user's history; swap the
// Searcher used by the store when it is not.
package search

import (
	"sort"
	"strings"

	"github.com/rcliao/twin-memory/internal/fold"
	"github.com/rcliao/twin-memory/internal/model"
)

// Searcher finds memories relevant to a query.
type Searcher interface {
	Search(memories []model.Memory, query string, maxResults int) []model.Memory
}

// Substring matches memories whose folded content contains the folded query.
// Matches are ordered by importance, highest first; ties keep insertion order.
type Substring struct{}

func (Substring) Search(memories []model.Memory, query string, maxResults int) []model.Memory {
	if maxResults <= 0 {
		return []model.Memory{}
	}

	q := fold.String(query)
	matches := []model.Memory{}
	for _, m := range memories {
		if strings.Contains(fold.String(m.Content), q) {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Importance > matches[j].Importance
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}
