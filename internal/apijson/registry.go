// Package apijson decodes the account and transaction lists served by the
// JSON API of each hledger-web generation.
package apijson

import (
	"io"
	"slices"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// LedgerAccount is an account as reported by the server, before the
// hierarchy is completed.
type LedgerAccount struct {
	Name     string
	Amounts  []model.AccountAmount
	Postings int
}

// Parser decodes the payloads of one API generation.
type Parser interface {
	Version() model.APIVersion
	ParseAccounts(r io.Reader) ([]LedgerAccount, error)
	ParseTransactions(r io.Reader) ([]model.Transaction, error)
}

// Registry holds parsers by API version.
type Registry struct {
	parsers map[model.APIVersion]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[model.APIVersion]Parser)}
}

// Register adds a parser. Panics on a duplicate or non-concrete version.
func (r *Registry) Register(p Parser) {
	v := p.Version()
	if !v.IsConcrete() {
		panic("parser for non-concrete api version: " + v.String())
	}
	if _, ok := r.parsers[v]; ok {
		panic("duplicate parser version: " + v.String())
	}
	r.parsers[v] = p
}

// Get returns the parser for v, or nil.
func (r *Registry) Get(v model.APIVersion) Parser {
	return r.parsers[v]
}

// Candidates returns every parser, newest version first.
func (r *Registry) Candidates() []Parser {
	out := make([]Parser, 0, len(r.parsers))
	for _, p := range r.parsers {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Parser) int {
		return b.Version().Compare(a.Version())
	})
	return out
}

// DefaultRegistry returns a registry with every supported API generation.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range dialects {
		r.Register(&parser{d: d})
	}
	return r
}
