package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search long-term memories",
		Long:  "Case-insensitive substring search over long-term memories, most important first.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 5, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	results := s.SearchMemories(query, limit)

	if formatFlag == "text" {
		for _, m := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "[%.2f] %s %s\n%s\n\n",
				m.Importance, m.Timestamp.Format("2006-01-02 15:04"), strings.Join(m.Tags, ","), m.Content)
		}
		return
	}
	printJSON(cmd.OutOrStdout(), results)
}
