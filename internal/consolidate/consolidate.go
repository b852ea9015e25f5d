// Package consolidate turns evicted interactions into long-term memories.
package consolidate

import (
	"strings"

	"github.com/rcliao/twin-memory/internal/model"
)

// SummaryLabel prefixes every consolidated summary.
const SummaryLabel = "Conversation summary:"

// Summarize renders an interaction as "<role>: <content>" lines under SummaryLabel.
func Summarize(ia model.Interaction) string {
	var b strings.Builder
	b.WriteString(SummaryLabel)
	for _, msg := range ia.Messages {
		b.WriteString("\n")
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// Consolidate builds the Memory for an evicted interaction. The interaction
// is taken by value; its Summary is filled on that copy only.
func Consolidate(ia model.Interaction, id string) model.Memory {
	ia.Summary = Summarize(ia)
	return model.Memory{
		ID:         id,
		Content:    ia.Summary,
		Timestamp:  ia.Timestamp,
		Importance: Importance(ia),
		Type:       model.TypeConversation,
		Tags:       Tags(ia),
	}
}
