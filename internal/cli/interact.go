package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/twin-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "interact",
		Short: "Record an interaction",
		Long: "Record a completed exchange in short-term memory. System messages come first, then user and " +
			"assistant messages interleaved in flag order. Without --user the user message is read from stdin.",
		Run: runInteract,
	}

	cmd.Flags().StringArrayP("user", "u", nil, "User message (repeatable)")
	cmd.Flags().StringArrayP("assistant", "a", nil, "Assistant message (repeatable)")
	cmd.Flags().StringArrayP("system", "s", nil, "System message (repeatable)")
	cmd.Flags().StringArrayP("context", "c", nil, "Context entry key=value (repeatable)")

	RootCmd.AddCommand(cmd)
}

func runInteract(cmd *cobra.Command, args []string) {
	users, _ := cmd.Flags().GetStringArray("user")
	assistants, _ := cmd.Flags().GetStringArray("assistant")
	systems, _ := cmd.Flags().GetStringArray("system")
	ctxPairs, _ := cmd.Flags().GetStringArray("context")

	if len(users) == 0 {
		stat, _ := os.Stdin.Stat()
		if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			if text := strings.TrimSpace(string(b)); text != "" {
				users = []string{text}
			}
		}
	}

	messages := buildMessages(systems, users, assistants)
	fields, err := parseContext(ctxPairs)
	if err != nil {
		exitErr("interact", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	ia, err := s.AddInteraction(messages, fields)
	if err != nil {
		exitErr("interact", err)
	}
	if err := s.Save(); err != nil {
		exitErr("save", err)
	}

	st := s.Stats()
	printJSON(cmd.OutOrStdout(), map[string]any{
		"id":         ia.ID,
		"messages":   len(ia.Messages),
		"short_term": st.ShortTerm,
		"long_term":  st.LongTerm,
	})
}

func buildMessages(systems, users, assistants []string) []model.Message {
	var out []model.Message
	for _, c := range systems {
		out = append(out, model.NewMessage(model.RoleSystem, c))
	}
	for i := 0; i < len(users) || i < len(assistants); i++ {
		if i < len(users) {
			out = append(out, model.NewMessage(model.RoleUser, users[i]))
		}
		if i < len(assistants) {
			out = append(out, model.NewMessage(model.RoleAssistant, assistants[i]))
		}
	}
	return out
}

// parseContext turns key=value pairs into Fields. Values that parse as a
// bool or number keep that type.
func parseContext(pairs []string) (model.Fields, error) {
	fields := model.Fields{}
	for _, p := range pairs {
		k, val, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("context entry %q: want key=value", p)
		}
		fields[k] = model.ParseScalar(val)
	}
	return fields, nil
}
