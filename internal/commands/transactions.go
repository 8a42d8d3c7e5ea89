package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Yus314/MoLe-sub005/internal/accumulator"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

func newTransactionsCommand(g *globals) *cobra.Command {
	var (
		profile string
		account string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List synced transactions, with running totals for --account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransactions(cmd.Context(), cmd.OutOrStdout(), g, profile, account, limit)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "profile name (optional with a single profile)")
	cmd.Flags().StringVarP(&account, "account", "a", "", "only transactions touching this account or its sub-accounts")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many rows (0 for all)")

	return cmd
}

func runTransactions(ctx context.Context, out io.Writer, g *globals, profileName, account string, limit int) error {
	proj, err := openProject(g)
	if err != nil {
		return err
	}
	defer proj.Close()

	pc, err := proj.cfg.Profile(profileName)
	if err != nil {
		return err
	}
	db, err := proj.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	txs, err := db.ListTransactions(ctx, pc.ID, account)
	if err != nil {
		return err
	}

	// running totals accumulate oldest first
	slices.Reverse(txs)
	f := commodityFormatter{fallback: pc.DefaultCommodity}
	acc := accumulator.New(account, f)
	for _, tx := range txs {
		acc.Put(tx)
	}

	if acc.Count() == 0 {
		fmt.Fprintln(out, "No transactions.")
		return nil
	}
	fmt.Fprintf(out, "%d transactions from %s to %s\n",
		acc.Count(), acc.Earliest().Format(model.DateLayout), acc.Latest().Format(model.DateLayout))

	bold := color.New(color.Bold)
	shown := 0
	for _, item := range acc.Items() {
		if item.Kind != accumulator.TransactionItem {
			continue
		}
		if limit > 0 && shown == limit {
			break
		}
		shown++

		tx := item.Transaction
		line := fmt.Sprintf("%s %-40s", tx.Date.Format(model.DateLayout), tx.Description)
		if item.RunningTotal != nil {
			line += "  " + *item.RunningTotal
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))

		for _, l := range tx.Lines {
			row := fmt.Sprintf("    %-38s %s", l.AccountName, f.Format(decimal.NewFromFloat32(l.Amount), l.Currency))
			if item.BoldAccountName != "" && model.IsSubAccount(l.AccountName, item.BoldAccountName) {
				bold.Fprintln(out, row)
				continue
			}
			fmt.Fprintln(out, row)
		}
	}
	return nil
}
