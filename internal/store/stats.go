package store

import (
	"os"
	"sort"
	"time"
)

// Stats summarizes the store's tiers.
type Stats struct {
	Path              string     `json:"path"`
	SnapshotBytes     int64      `json:"snapshot_bytes"`
	Working           int        `json:"working"`
	WorkingCapacity   int        `json:"working_capacity"`
	ShortTerm         int        `json:"short_term"`
	ShortTermCapacity int        `json:"short_term_capacity"`
	LongTerm          int        `json:"long_term"`
	Oldest            *time.Time `json:"oldest,omitempty"`
	Newest            *time.Time `json:"newest,omitempty"`
	Tags              []TagCount `json:"tags"`
}

// TagCount holds how many long-term memories carry a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats returns tier sizes, the snapshot size on disk and a tag histogram.
func (s *Store) Stats() Stats {
	st := Stats{
		Path:              s.path,
		Working:           len(s.working),
		WorkingCapacity:   s.workingCap,
		ShortTerm:         len(s.shortTerm),
		ShortTermCapacity: s.shortCap,
		LongTerm:          len(s.longTerm),
		Tags:              []TagCount{},
	}

	if info, err := os.Stat(s.path); err == nil {
		st.SnapshotBytes = info.Size()
	}

	counts := map[string]int{}
	for _, m := range s.longTerm {
		ts := m.Timestamp
		if st.Oldest == nil || ts.Before(*st.Oldest) {
			st.Oldest = &ts
		}
		if st.Newest == nil || ts.After(*st.Newest) {
			st.Newest = &ts
		}
		for _, tag := range m.Tags {
			counts[tag]++
		}
	}
	for tag, n := range counts {
		st.Tags = append(st.Tags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(st.Tags, func(i, j int) bool {
		if st.Tags[i].Count != st.Tags[j].Count {
			return st.Tags[i].Count > st.Tags[j].Count
		}
		return st.Tags[i].Tag < st.Tags[j].Tag
	})

	return st
}
