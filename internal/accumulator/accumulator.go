// Package accumulator turns a stream of transactions into display rows with
// per-currency running totals for one account subtree.
package accumulator

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// CurrencyFormatter renders a total in one currency.
type CurrencyFormatter interface {
	Format(amount decimal.Decimal, currency string) string
}

// ItemKind distinguishes display rows.
type ItemKind int

const (
	HeaderItem ItemKind = iota
	TransactionItem
)

// Item is one display row. Only TransactionItem rows carry a transaction.
type Item struct {
	Kind            ItemKind
	Transaction     model.Transaction
	RunningTotal    *string
	BoldAccountName string
}

type total struct {
	currency string
	value    decimal.Decimal
}

// Accumulator collects transactions in chronological order.
type Accumulator struct {
	account   string
	formatter CurrencyFormatter

	rows     []Item
	totals   []total // first-encounter order
	count    int
	earliest time.Time
	latest   time.Time
}

// New returns an accumulator that sums lines posted to account or below it.
// An empty account disables running totals. A nil formatter uses
// MoneyFormatter.
func New(account string, formatter CurrencyFormatter) *Accumulator {
	if formatter == nil {
		formatter = MoneyFormatter{}
	}
	return &Accumulator{account: account, formatter: formatter}
}

// Put appends tx as the next row.
func (a *Accumulator) Put(tx model.Transaction) {
	a.count++
	if a.count == 1 {
		a.earliest = tx.Date
	}
	a.latest = tx.Date

	var running *string
	if a.account != "" {
		for _, l := range tx.Lines {
			if !model.IsSubAccount(l.AccountName, a.account) {
				continue
			}
			a.add(l.Currency, decimal.NewFromFloat32(l.Amount).RoundBank(2))
		}
		running = a.summary()
	}

	a.rows = append(a.rows, Item{
		Kind:            TransactionItem,
		Transaction:     tx,
		RunningTotal:    running,
		BoldAccountName: a.account,
	})
}

func (a *Accumulator) add(currency string, v decimal.Decimal) {
	for i := range a.totals {
		if a.totals[i].currency == currency {
			a.totals[i].value = a.totals[i].value.Add(v)
			return
		}
	}
	a.totals = append(a.totals, total{currency: currency, value: v})
}

func (a *Accumulator) summary() *string {
	if len(a.totals) == 0 {
		return nil
	}
	parts := make([]string, 0, len(a.totals))
	for _, t := range a.totals {
		parts = append(parts, a.formatter.Format(t.value, t.currency))
	}
	s := strings.Join(parts, " ")
	return &s
}

// Items returns the header row followed by the transaction rows, most
// recently added first.
func (a *Accumulator) Items() []Item {
	items := make([]Item, 0, len(a.rows)+1)
	items = append(items, Item{Kind: HeaderItem})
	for i := len(a.rows) - 1; i >= 0; i-- {
		items = append(items, a.rows[i])
	}
	return items
}

// Count returns the number of transactions put so far.
func (a *Accumulator) Count() int { return a.count }

// Earliest returns the date of the first transaction put, or the zero time.
func (a *Accumulator) Earliest() time.Time { return a.earliest }

// Latest returns the date of the last transaction put, or the zero time.
func (a *Accumulator) Latest() time.Time { return a.latest }
