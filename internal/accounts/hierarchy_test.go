package accounts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

func TestEnsureExistsCreatesAncestors(t *testing.T) {
	tests := []string{
		"Assets",
		"Assets:Bank",
		"Assets:Bank:Checking",
		"Expenses:Food:Groceries:Organic",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			existing := map[string]*model.Account{}
			var created []*model.Account

			leaf := EnsureExists(name, existing, &created)
			require.NotNil(t, leaf)
			assert.Equal(t, name, leaf.Name)

			segments := len(strings.Split(name, ":"))
			assert.Len(t, existing, segments)
			assert.Len(t, created, segments)
			for i, acc := range created {
				assert.Equal(t, i, acc.Level)
				assert.Empty(t, acc.Amounts)
			}

			var again []*model.Account
			leaf2 := EnsureExists(name, existing, &again)
			assert.Empty(t, again)
			assert.Same(t, leaf, leaf2)
			assert.Len(t, existing, segments)
		})
	}
}

func TestEnsureExistsKeepsKnownAccounts(t *testing.T) {
	bank := model.NewAccount("Assets:Bank")
	bank.Amounts = []model.AccountAmount{{Currency: "USD", Amount: 10}}
	existing := map[string]*model.Account{"Assets:Bank": &bank}
	var created []*model.Account

	EnsureExists("Assets:Bank:Checking", existing, &created)

	require.Len(t, created, 2)
	assert.Equal(t, "Assets", created[0].Name)
	assert.Equal(t, "Assets:Bank:Checking", created[1].Name)
	assert.Same(t, &bank, existing["Assets:Bank"])
	assert.Len(t, existing["Assets:Bank"].Amounts, 1)
}

func TestEnsureExistsNilAccumulator(t *testing.T) {
	existing := map[string]*model.Account{}
	leaf := EnsureExists("A:B", existing, nil)
	assert.Equal(t, "A:B", leaf.Name)
	assert.Len(t, existing, 2)
}

func TestBuilderBuild(t *testing.T) {
	b := NewBuilder()
	checking := model.NewAccount("Assets:Bank:Checking")
	checking.Amounts = []model.AccountAmount{{Currency: "USD", Amount: 100}}
	_, ok := b.Add(checking)
	require.True(t, ok)
	_, ok = b.Add(model.NewAccount("Expenses:Food"))
	require.True(t, ok)
	// Parent listed after its child must not be replaced by a synthesized one.
	assets := model.NewAccount("Assets")
	assets.Amounts = []model.AccountAmount{{Currency: "USD", Amount: 100}}
	_, ok = b.Add(assets)
	require.True(t, ok)

	got := b.Build()

	var names []string
	for _, a := range got {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Assets", "Assets:Bank", "Assets:Bank:Checking", "Expenses", "Expenses:Food"}, names)
	assert.Len(t, got[0].Amounts, 1, "reported parent keeps its amounts")
	assert.Len(t, b.Created(), 2)
	assert.True(t, b.Exists("Assets:Bank"))
}

func TestBuilderFirstAddWins(t *testing.T) {
	b := NewBuilder()
	first := model.NewAccount("Assets")
	first.Amounts = []model.AccountAmount{{Currency: "EUR", Amount: 1}}
	_, ok := b.Add(first)
	require.True(t, ok)

	acc, ok := b.Add(model.NewAccount(" Assets "))
	assert.False(t, ok)
	assert.Len(t, acc.Amounts, 1)
	assert.Len(t, b.Build(), 1)
}

func TestNormalizeName(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	assert.Equal(t, "Caf\u00e9", NormalizeName(" Cafe\u0301 "))
}

func TestSortByName(t *testing.T) {
	accts := []model.Account{
		model.NewAccount("Assets:Bank"),
		model.NewAccount("Assets Foo"),
		model.NewAccount("Assets"),
	}
	SortByName(accts)
	assert.Equal(t, "Assets", accts[0].Name)
	assert.Equal(t, "Assets:Bank", accts[1].Name)
	assert.Equal(t, "Assets Foo", accts[2].Name)
}
