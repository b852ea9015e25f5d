package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent long-term memories",
		Run:   runRecent,
	}

	cmd.Flags().IntP("days", "d", 7, "Look back this many days")

	RootCmd.AddCommand(cmd)
}

func runRecent(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")
	if days < 0 {
		exitErr("recent", fmt.Errorf("days must not be negative"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	memories := s.MemoriesByTimeframe(days)

	if formatFlag == "text" {
		for _, m := range memories {
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%.2f] %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Importance, m.ID)
		}
		return
	}
	printJSON(cmd.OutOrStdout(), memories)
}
