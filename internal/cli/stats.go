package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory tier statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	stats := s.Stats()

	if formatFlag != "text" {
		printJSON(cmd.OutOrStdout(), stats)
		return
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Snapshot:    %s (%s)\n", stats.Path, humanize.Bytes(uint64(stats.SnapshotBytes)))
	fmt.Fprintf(w, "Short-term:  %d/%d interactions\n", stats.ShortTerm, stats.ShortTermCapacity)
	fmt.Fprintf(w, "Long-term:   %s memories\n", humanize.Comma(int64(stats.LongTerm)))
	if stats.Oldest != nil && stats.Newest != nil {
		fmt.Fprintf(w, "Oldest:      %s\n", humanize.Time(*stats.Oldest))
		fmt.Fprintf(w, "Newest:      %s\n", humanize.Time(*stats.Newest))
	}
	for _, tc := range stats.Tags {
		fmt.Fprintf(w, "  %-10s %d\n", tc.Tag, tc.Count)
	}
}
