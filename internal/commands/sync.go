package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Yus314/MoLe-sub005/internal/persist"
	"github.com/Yus314/MoLe-sub005/internal/syncer"
	"github.com/Yus314/MoLe-sub005/internal/syncerr"
	"github.com/Yus314/MoLe-sub005/internal/synclog"
)

func newSyncCommand(g *globals) *cobra.Command {
	var profile string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch accounts and transactions from a server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			progress := cmd.ErrOrStderr()
			if quiet {
				progress = io.Discard
			}
			return runSync(ctx, cmd.OutOrStdout(), progress, g, profile)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "profile name (optional with a single profile)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress")

	return cmd
}

func runSync(ctx context.Context, out, progress io.Writer, g *globals, profileName string) error {
	proj, err := openProject(g)
	if err != nil {
		return err
	}
	defer proj.Close()

	pc, err := proj.cfg.Profile(profileName)
	if err != nil {
		return err
	}
	profile := pc.Model()

	db, err := proj.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	s := syncer.New(proj.client(), persist.New(db, db, db), syncer.WithLogger(proj.log.Logger))
	reported := false
	res, err := s.Sync(ctx, profile, func(processed, total int) {
		reported = true
		fmt.Fprintf(progress, "\r%d/%d postings", processed, total)
	})
	if reported {
		fmt.Fprintln(progress)
	}

	entry := synclog.Entry{
		Timestamp:    time.Now().UTC(),
		RunID:        res.RunID,
		Profile:      profile.Name,
		Method:       string(res.Method),
		Accounts:     len(res.Accounts),
		Transactions: len(res.Transactions),
		Duration:     res.Duration,
	}
	if res.Method != "" {
		entry.Version = res.Version.String()
	}

	var serr *syncerr.Error
	switch {
	case err == nil:
	case errors.As(err, &serr):
		entry.ErrorKind = serr.Kind.String()
	default:
		entry.ErrorKind = "storage"
	}
	if logErr := synclog.Append(proj.dir, entry); logErr != nil {
		proj.log.Printf("run %s: writing sync history: %v", res.RunID, logErr)
	}

	if err != nil {
		if serr != nil {
			color.New(color.FgRed).Fprintf(out, "✗ %s\n", serr.UserMessage())
		}
		return err
	}

	color.New(color.FgGreen).Fprintf(out, "✓ %s: %d accounts, %d transactions via %s (%s) in %s\n",
		profile.Name, len(res.Accounts), len(res.Transactions), res.Method, res.Version,
		res.Duration.Round(time.Millisecond))
	return nil
}
