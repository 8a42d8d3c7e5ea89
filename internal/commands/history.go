package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Yus314/MoLe-sub005/internal/synclog"
)

func newHistoryCommand(g *globals) *cobra.Command {
	var (
		profile string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.OutOrStdout(), g, profile, limit)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "only runs of this profile")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")

	return cmd
}

func runHistory(out io.Writer, g *globals, profile string, limit int) error {
	proj, err := openProject(g)
	if err != nil {
		return err
	}
	defer proj.Close()

	entries, err := synclog.Read(proj.dir)
	if err != nil {
		return err
	}
	entries = synclog.Last(entries, profile, limit)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No sync runs recorded.")
		return nil
	}

	for _, e := range entries {
		when := e.Timestamp.Local().Format(time.DateTime)
		if !e.OK() {
			color.New(color.FgRed).Fprintf(out, "%s %-12s failed: %s\n", when, e.Profile, e.ErrorKind)
			continue
		}
		fmt.Fprintf(out, "%s %-12s %d accounts, %d transactions via %s (%s) in %s\n",
			when, e.Profile, e.Accounts, e.Transactions, e.Method, e.Version, e.Duration)
	}
	return nil
}
