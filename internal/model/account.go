package model

import "strings"

// AccountSeparator splits hierarchical account names.
const AccountSeparator = ":"

// AccountAmount is the balance of an account in one currency.
type AccountAmount struct {
	Currency string
	Amount   float32
}

// Account is a node in the ledger's account tree, e.g. "Assets:Bank:Checking".
type Account struct {
	Name       string
	Level      int    // number of separators in Name
	ParentName string // "" at top level
	Amounts    []AccountAmount

	// View state owned by the user, carried across syncs.
	IsExpanded      bool
	AmountsExpanded bool
}

// NewAccount returns an account with level and parent derived from name and
// the default view state for accounts seen for the first time.
func NewAccount(name string) Account {
	return Account{
		Name:       name,
		Level:      AccountLevel(name),
		ParentName: ParentName(name),
		IsExpanded: true,
	}
}

// AccountLevel returns the depth of name, 0 for top-level accounts.
func AccountLevel(name string) int {
	return strings.Count(name, AccountSeparator)
}

// ParentName returns name without its last segment.
// "Assets:Bank:Checking" -> "Assets:Bank", "Assets" -> "".
func ParentName(name string) string {
	i := strings.LastIndex(name, AccountSeparator)
	if i < 0 {
		return ""
	}
	return name[:i]
}

// IsSubAccount reports whether name equals parent or lies below it.
// "Expenses:Food" is below "Expenses"; "ExpensesX" is not.
func IsSubAccount(name, parent string) bool {
	if name == parent {
		return true
	}
	return strings.HasPrefix(name, parent+AccountSeparator)
}

// AddAmount adds value to the amount for currency, appending a new entry the
// first time a currency is seen.
func (a *Account) AddAmount(currency string, value float32) {
	for i := range a.Amounts {
		if a.Amounts[i].Currency == currency {
			a.Amounts[i].Amount += value
			return
		}
	}
	a.Amounts = append(a.Amounts, AccountAmount{Currency: currency, Amount: value})
}
