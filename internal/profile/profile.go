// Package profile holds the user profile a twin speaks for: identity,
// personality traits, interests and language style. The orchestrator only
// consumes it as prompt text.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Big Five trait names.
const (
	TraitOpenness          = "openness"
	TraitConscientiousness = "conscientiousness"
	TraitExtraversion      = "extraversion"
	TraitAgreeableness     = "agreeableness"
	TraitNeuroticism       = "neuroticism"
)

const neutral = 0.5

// Trait is a named personality dimension with an intensity in [0,1].
type Trait struct {
	Name        string  `yaml:"name" json:"name"`
	Value       float64 `yaml:"value" json:"value"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Interest is a topic the user cares about, with a level in [0,1].
type Interest struct {
	Topic    string   `yaml:"topic" json:"topic"`
	Level    float64  `yaml:"level" json:"level"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords"`
}

// Style describes how replies should sound. Every dimension is in [0,1].
type Style struct {
	Formality  float64 `yaml:"formality" json:"formality"`
	Verbosity  float64 `yaml:"verbosity" json:"verbosity"`
	Humor      float64 `yaml:"humor" json:"humor"`
	EmojiUsage float64 `yaml:"emoji_usage" json:"emoji_usage"`
}

// Profile is the identity the twin speaks for.
type Profile struct {
	Name       string     `yaml:"name" json:"name"`
	Age        int        `yaml:"age,omitempty" json:"age,omitempty"`
	Occupation string     `yaml:"occupation,omitempty" json:"occupation,omitempty"`
	Bio        string     `yaml:"bio,omitempty" json:"bio,omitempty"`
	Traits     []Trait    `yaml:"personality_traits" json:"personality_traits"`
	Interests  []Interest `yaml:"interests" json:"interests"`
	Style      Style      `yaml:"language_style" json:"language_style"`
	Values     []string   `yaml:"values,omitempty" json:"values,omitempty"`
	CreatedAt  time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `yaml:"updated_at" json:"updated_at"`
}

// Default returns a profile with neutral traits and style.
func Default(name string) *Profile {
	now := time.Now()
	return &Profile{
		Name: name,
		Traits: []Trait{
			{Name: TraitOpenness, Value: neutral, Description: "Openness"},
			{Name: TraitConscientiousness, Value: neutral, Description: "Conscientiousness"},
			{Name: TraitExtraversion, Value: neutral, Description: "Extraversion"},
			{Name: TraitAgreeableness, Value: neutral, Description: "Agreeableness"},
			{Name: TraitNeuroticism, Value: neutral, Description: "Neuroticism"},
		},
		Interests: []Interest{},
		Style:     Style{Formality: 0.5, Verbosity: 0.5, Humor: 0.5, EmojiUsage: 0.3},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load reads a YAML profile. A missing file yields Default(name).
func Load(path, name string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(name), nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p := Default(name)
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// Save writes the profile as YAML, creating parent directories.
func (p *Profile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// UpdateTrait sets a trait, clamped to [0,1], adding it when unknown.
func (p *Profile) UpdateTrait(name string, value float64) {
	value = clamp(value)
	defer p.touch()
	for i := range p.Traits {
		if p.Traits[i].Name == name {
			p.Traits[i].Value = value
			return
		}
	}
	p.Traits = append(p.Traits, Trait{Name: name, Value: value})
}

// TraitValue returns a trait's value, or 0.5 when the trait is unknown.
func (p *Profile) TraitValue(name string) float64 {
	for _, t := range p.Traits {
		if t.Name == name {
			return t.Value
		}
	}
	return neutral
}

// AddInterest inserts or replaces an interest; topics compare case-insensitively.
func (p *Profile) AddInterest(topic string, level float64, keywords []string) {
	if keywords == nil {
		keywords = []string{}
	}
	level = clamp(level)
	defer p.touch()
	for i := range p.Interests {
		if strings.EqualFold(p.Interests[i].Topic, topic) {
			p.Interests[i].Level = level
			p.Interests[i].Keywords = keywords
			return
		}
	}
	p.Interests = append(p.Interests, Interest{Topic: topic, Level: level, Keywords: keywords})
}

// Update applies the non-zero fields of u.
func (p *Profile) Update(u Update) {
	if u.Name != "" {
		p.Name = u.Name
	}
	if u.Age > 0 {
		p.Age = u.Age
	}
	if u.Occupation != "" {
		p.Occupation = u.Occupation
	}
	if u.Bio != "" {
		p.Bio = u.Bio
	}
	p.touch()
}

// Update carries optional identity changes; zero values are ignored.
type Update struct {
	Name       string `json:"name,omitempty"`
	Age        int    `json:"age,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

func (p *Profile) touch() { p.UpdatedAt = time.Now() }

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() Profile {
	c := *p
	c.Traits = make([]Trait, len(p.Traits))
	copy(c.Traits, p.Traits)
	c.Interests = make([]Interest, len(p.Interests))
	for i, in := range p.Interests {
		in.Keywords = append([]string(nil), in.Keywords...)
		c.Interests[i] = in
	}
	c.Values = append([]string(nil), p.Values...)
	return c
}
