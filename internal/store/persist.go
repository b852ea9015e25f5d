package store

import (
	"errors"
	"io"
	"os"

	"github.com/rcliao/twin-memory/internal/model"
	"github.com/rcliao/twin-memory/internal/snapshot"
)

const corruptSuffix = ".corrupt"

// Save writes the short-term and long-term tiers to the snapshot path.
// Working memory is not persisted.
func (s *Store) Save() error {
	if err := snapshot.Write(s.path, s.snapshot()); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.Debug("saved memories",
		"path", s.path,
		"short_term", len(s.shortTerm),
		"long_term", len(s.longTerm))
	return nil
}

// Load replaces the short-term and long-term tiers with the snapshot
// contents. A missing snapshot loads as empty without error. An unreadable
// or corrupt snapshot leaves both tiers empty and returns a
// *PersistenceError; the store remains usable. A corrupt snapshot is moved
// to <path>.corrupt first so the next Save cannot overwrite it.
func (s *Store) Load() error {
	snap, err := snapshot.Read(s.path)
	if err != nil {
		s.shortTerm = []model.Interaction{}
		s.longTerm = []model.Memory{}
		perr := &PersistenceError{Op: "load", Path: s.path, Err: err}
		if errors.Is(err, snapshot.ErrCorrupt) {
			backup := s.path + corruptSuffix
			if rerr := os.Rename(s.path, backup); rerr != nil {
				s.logger.Error("could not move corrupt snapshot aside", "path", s.path, "err", rerr)
			} else {
				perr.Backup = backup
			}
		}
		s.logger.Warn("could not load memories, starting empty", "path", s.path, "backup", perr.Backup, "err", err)
		return perr
	}
	s.restore(snap)
	s.logger.Debug("loaded memories",
		"path", s.path,
		"short_term", len(s.shortTerm),
		"long_term", len(s.longTerm))
	return nil
}

// Export writes the persisted tiers to w in snapshot format.
func (s *Store) Export(w io.Writer) error {
	return snapshot.Encode(w, s.snapshot())
}

// Import replaces the persisted tiers with a snapshot read from r. On a
// decode error the store is left unchanged. Short-term overflow beyond the
// configured capacity is consolidated oldest first.
func (s *Store) Import(r io.Reader) (int, error) {
	snap, err := snapshot.Decode(r)
	if err != nil {
		return 0, err
	}
	s.restore(snap)
	return len(snap.ShortTerm) + len(snap.LongTerm), nil
}

func (s *Store) snapshot() snapshot.Snapshot {
	return snapshot.Snapshot{ShortTerm: s.shortTerm, LongTerm: s.longTerm}
}

func (s *Store) restore(snap snapshot.Snapshot) {
	s.shortTerm = append([]model.Interaction{}, snap.ShortTerm...)
	s.longTerm = append([]model.Memory{}, snap.LongTerm...)
	for len(s.shortTerm) > s.shortCap {
		oldest := s.shortTerm[0]
		s.shortTerm = s.shortTerm[1:]
		s.consolidate(oldest)
	}
}
