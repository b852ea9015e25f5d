package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rcliao/twin-memory/internal/agent"
	"github.com/rcliao/twin-memory/internal/config"
	"github.com/rcliao/twin-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the twin interactively",
		Long: "Start a conversation on stdin. Replies stream as they are generated. " +
			"Commands: /summary, /reset, /save, /quit.",
		Run: runChat,
	}

	addAgentFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func addAgentFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd.Flags(), config.Flags, config.FlagProfile)
	config.AddStringFlag(cmd.Flags(), config.Flags, config.FlagName)
	config.AddStringFlag(cmd.Flags(), config.Flags, config.FlagModel)
	config.AddIntFlag(cmd.Flags(), config.Flags, config.FlagMaxTokens)
}

func runChat(cmd *cobra.Command, args []string) {
	a, err := openAgent()
	if err != nil {
		exitErr("open agent", err)
	}

	session := uuid.NewString()
	logger.Debug("chat session started", "session", session)

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintln(out, "Type a message, or /quit to leave.")

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			saveAgent(a)
			return
		case "/summary":
			fmt.Fprintln(out, a.Summary())
			continue
		case "/reset":
			a.ResetConversation()
			fmt.Fprintln(out, "Conversation reset.")
			continue
		case "/save":
			saveAgent(a)
			fmt.Fprintln(out, "Saved.")
			continue
		}

		stream := a.ChatStream(cmd.Context(), line, model.Fields{"session": model.String(session)})
		for tok := range stream.Tokens() {
			fmt.Fprint(out, tok)
		}
		fmt.Fprintln(out)

		if err := stream.Err(); err != nil {
			var pf *agent.ProviderFailure
			if errors.As(err, &pf) {
				fmt.Fprintf(out, "Sorry, the model failed: %v\n", pf.Err)
				continue
			}
			logger.Error("chat turn failed", "err", err)
		}
	}
	saveAgent(a)
}

func saveAgent(a *agent.Agent) {
	if err := a.Save(); err != nil {
		logger.Error("save failed", "err", err)
	}
}
