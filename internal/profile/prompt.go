package profile

import (
	"fmt"
	"strings"
)

// PromptContext renders the profile as the identity section of a system prompt.
func (p *Profile) PromptContext() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the digital twin of %s.\n\n", p.Name)

	if p.Bio != "" {
		fmt.Fprintf(&b, "Background: %s\n\n", p.Bio)
	}
	if p.Age > 0 {
		fmt.Fprintf(&b, "Age: %d\n", p.Age)
	}
	if p.Occupation != "" {
		fmt.Fprintf(&b, "Occupation: %s\n", p.Occupation)
	}

	if len(p.Traits) > 0 {
		b.WriteString("\nPersonality traits:\n")
		for _, t := range p.Traits {
			label := t.Description
			if label == "" {
				label = t.Name
			}
			fmt.Fprintf(&b, "- %s: %s (%.2f)\n", label, band(t.Value, 0.3, 0.7, "low", "medium", "high"), t.Value)
		}
	}

	if len(p.Interests) > 0 {
		b.WriteString("\nInterests:\n")
		for _, in := range p.Interests {
			fmt.Fprintf(&b, "- %s (level: %.2f)\n", in.Topic, in.Level)
		}
	}

	if len(p.Values) > 0 {
		fmt.Fprintf(&b, "\nValues: %s\n", strings.Join(p.Values, ", "))
	}

	b.WriteString("\nLanguage style:\n")
	fmt.Fprintf(&b, "- Formality: %s\n", band(p.Style.Formality, 0.4, 0.6, "casual", "balanced", "formal"))
	fmt.Fprintf(&b, "- Verbosity: %s\n", band(p.Style.Verbosity, 0.4, 0.6, "concise", "balanced", "detailed"))
	fmt.Fprintf(&b, "- Humor: %s\n", band(p.Style.Humor, 0.4, 0.6, "serious", "balanced", "humorous"))

	return b.String()
}

// ConversationPrompt extends PromptContext with trait-driven guidelines.
func (p *Profile) ConversationPrompt() string {
	var b strings.Builder
	b.WriteString(p.PromptContext())
	b.WriteString("\n\nConversation guidelines:\n")

	switch o := p.TraitValue(TraitOpenness); {
	case o > 0.7:
		b.WriteString("- Stay open and curious about new ideas\n")
	case o < 0.3:
		b.WriteString("- Prefer traditional, proven approaches\n")
	}
	switch e := p.TraitValue(TraitExtraversion); {
	case e > 0.7:
		b.WriteString("- Communicate with warmth and enthusiasm\n")
	case e < 0.3:
		b.WriteString("- Communicate in a reserved, thoughtful way\n")
	}
	if p.TraitValue(TraitAgreeableness) > 0.7 {
		b.WriteString("- Show empathy and a cooperative attitude\n")
	}
	if p.TraitValue(TraitConscientiousness) > 0.7 {
		b.WriteString("- Pay attention to detail and organization\n")
	}

	b.WriteString("\nRespond to the user in a way that matches these traits.")
	return b.String()
}

// Summary is a human-readable overview of the profile.
func (p *Profile) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Digital twin: %s\n", p.Name)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	if p.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n\n", p.Bio)
	}
	b.WriteString("Personality traits:\n")
	for _, t := range p.Traits {
		label := t.Description
		if label == "" {
			label = t.Name
		}
		fmt.Fprintf(&b, "  %s: %.2f\n", label, t.Value)
	}
	if len(p.Interests) > 0 {
		b.WriteString("\nInterests:\n")
		for _, in := range p.Interests {
			fmt.Fprintf(&b, "  %s: %.2f\n", in.Topic, in.Level)
		}
	}
	return b.String()
}

func band(v, lo, hi float64, low, mid, high string) string {
	switch {
	case v < lo:
		return low
	case v > hi:
		return high
	}
	return mid
}
