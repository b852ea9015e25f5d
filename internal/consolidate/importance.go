package consolidate

import (
	"unicode/utf8"

	"github.com/rcliao/twin-memory/internal/model"
)

const (
	baseImportance = 0.5

	longContentChars = 500
	longContentBonus = 0.2

	chattyUserMessages = 3
	chattyUserBonus    = 0.1
)

// Importance scores an interaction in [0,1]. Content length is counted in
// runes across all messages.
func Importance(ia model.Interaction) float64 {
	score := baseImportance

	total := 0
	users := 0
	for _, msg := range ia.Messages {
		total += utf8.RuneCountInString(msg.Content)
		if msg.Role == model.RoleUser {
			users++
		}
	}
	if total > longContentChars {
		score += longContentBonus
	}
	if users > chattyUserMessages {
		score += chattyUserBonus
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
