package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Yus314/MoLe-sub005/internal/accumulator"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

func newAccountsCommand(g *globals) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Show the synced account tree with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts(cmd.Context(), cmd.OutOrStdout(), g, profile)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "profile name (optional with a single profile)")

	return cmd
}

func runAccounts(ctx context.Context, out io.Writer, g *globals, profileName string) error {
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

	accts, err := db.ListAccounts(ctx, pc.ID)
	if err != nil {
		return err
	}
	at, synced, err := db.LastSync(ctx, pc.ID)
	if err != nil {
		return err
	}
	if !synced {
		fmt.Fprintf(out, "%s has not been synced yet.\n", pc.Name)
		return nil
	}

	f := commodityFormatter{fallback: pc.DefaultCommodity}
	fmt.Fprintf(out, "%s, synced %s\n", pc.Name, at.Local().Format(time.DateTime))
	for _, a := range accts {
		label := strings.Repeat("  ", a.Level) + lastSegment(a.Name)
		var amounts []string
		for _, amt := range a.Amounts {
			amounts = append(amounts, f.Format(decimal.NewFromFloat32(amt.Amount), amt.Currency))
		}
		fmt.Fprintf(out, "%-40s %s\n", label, strings.Join(amounts, ", "))
	}
	return nil
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, model.AccountSeparator); i >= 0 {
		return name[i+1:]
	}
	return name
}

// commodityFormatter shows amounts without a commodity in the profile's
// default one.
type commodityFormatter struct {
	fallback string
}

func (c commodityFormatter) Format(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = c.fallback
	}
	return accumulator.MoneyFormatter{}.Format(amount, currency)
}
