// Package snapshot reads and writes the flat JSON document that persists the
// short-term and long-term tiers. Working memory is never part of it.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rcliao/twin-memory/internal/model"
)

// ErrCorrupt wraps every decode or schema failure returned by Read.
var ErrCorrupt = errors.New("corrupt snapshot")

// Snapshot is the persisted part of a memory store.
type Snapshot struct {
	ShortTerm []model.Interaction
	LongTerm  []model.Memory
}

type document struct {
	ShortTerm []interactionRecord `json:"short_term_memory"`
	LongTerm  []memoryRecord      `json:"long_term_memory"`
}

type interactionRecord struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Context   model.Fields    `json:"context"`
	Messages  []messageRecord `json:"messages"`
}

type messageRecord struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type memoryRecord struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Timestamp  string   `json:"timestamp"`
	Importance *float64 `json:"importance"`
	Type       string   `json:"type"`
	Tags       []string `json:"tags"`
}

// naiveLayout matches timestamps written without a zone offset by earlier
// versions of the snapshot format; they are read as local time.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Write encodes s as an indented JSON document at path, creating parent
// directories as needed.
func Write(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Read decodes the document at path. A missing file yields an empty
// snapshot and no error.
func Read(path string) (Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(bytes.NewReader(b))
}

// Encode writes s to w as the snapshot document.
func Encode(w io.Writer, s Snapshot) error {
	doc := document{
		ShortTerm: make([]interactionRecord, 0, len(s.ShortTerm)),
		LongTerm:  make([]memoryRecord, 0, len(s.LongTerm)),
	}
	for _, ia := range s.ShortTerm {
		ctx := ia.Context
		if ctx == nil {
			ctx = model.Fields{}
		}
		rec := interactionRecord{
			ID:        ia.ID,
			Timestamp: formatTime(ia.Timestamp),
			Context:   ctx,
			Messages:  make([]messageRecord, 0, len(ia.Messages)),
		}
		for _, m := range ia.Messages {
			rec.Messages = append(rec.Messages, messageRecord{
				Role:      string(m.Role),
				Content:   m.Content,
				Timestamp: formatTime(m.Timestamp),
			})
		}
		doc.ShortTerm = append(doc.ShortTerm, rec)
	}
	for _, m := range s.LongTerm {
		importance := m.Importance
		tags := m.Tags
		if tags == nil {
			tags = []string{}
		}
		doc.LongTerm = append(doc.LongTerm, memoryRecord{
			ID:         m.ID,
			Content:    m.Content,
			Timestamp:  formatTime(m.Timestamp),
			Importance: &importance,
			Type:       m.Type,
			Tags:       tags,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Decode parses and validates a snapshot document from r.
func Decode(r io.Reader) (Snapshot, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Snapshot{}, fmt.Errorf("%w: trailing data after document", ErrCorrupt)
	}

	var s Snapshot
	for i, rec := range doc.ShortTerm {
		ia, err := rec.interaction()
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: short_term_memory[%d]: %v", ErrCorrupt, i, err)
		}
		s.ShortTerm = append(s.ShortTerm, ia)
	}
	for i, rec := range doc.LongTerm {
		m, err := rec.memory()
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: long_term_memory[%d]: %v", ErrCorrupt, i, err)
		}
		s.LongTerm = append(s.LongTerm, m)
	}
	return s, nil
}

func (rec interactionRecord) interaction() (model.Interaction, error) {
	if rec.ID == "" {
		return model.Interaction{}, errors.New("missing id")
	}
	if len(rec.Messages) == 0 {
		return model.Interaction{}, errors.New("no messages")
	}
	ts, err := parseTime(rec.Timestamp)
	if err != nil {
		return model.Interaction{}, fmt.Errorf("timestamp: %w", err)
	}

	ia := model.Interaction{
		ID:        rec.ID,
		Timestamp: ts,
		Context:   rec.Context,
		Messages:  make([]model.Message, 0, len(rec.Messages)),
	}
	for j, mr := range rec.Messages {
		role := model.Role(mr.Role)
		if !role.Valid() {
			return model.Interaction{}, fmt.Errorf("messages[%d]: invalid role %q", j, mr.Role)
		}
		mts, err := parseTime(mr.Timestamp)
		if err != nil {
			return model.Interaction{}, fmt.Errorf("messages[%d] timestamp: %w", j, err)
		}
		ia.Messages = append(ia.Messages, model.Message{Role: role, Content: mr.Content, Timestamp: mts})
	}
	return ia, nil
}

func (rec memoryRecord) memory() (model.Memory, error) {
	if rec.ID == "" {
		return model.Memory{}, errors.New("missing id")
	}
	if rec.Importance == nil {
		return model.Memory{}, errors.New("missing importance")
	}
	if *rec.Importance < 0 || *rec.Importance > 1 {
		return model.Memory{}, fmt.Errorf("importance %v outside [0,1]", *rec.Importance)
	}
	ts, err := parseTime(rec.Timestamp)
	if err != nil {
		return model.Memory{}, fmt.Errorf("timestamp: %w", err)
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Memory{
		ID:         rec.ID,
		Content:    rec.Content,
		Timestamp:  ts,
		Importance: *rec.Importance,
		Type:       rec.Type,
		Tags:       tags,
	}, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(naiveLayout, s, time.Local)
}
