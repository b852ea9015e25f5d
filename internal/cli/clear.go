package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored interaction and memory",
		Run:   runClear,
	}

	cmd.Flags().Bool("yes", false, "Confirm deletion")

	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		exitErr("clear", fmt.Errorf("refusing to delete memories without --yes"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	s.ClearAll()
	if err := s.Save(); err != nil {
		exitErr("save", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), `{"ok":true}`)
}
