// Package accounts assembles account sets returned by the server into a
// complete tree, synthesizing ancestors the server did not list.
package accounts

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// NormalizeName trims name and puts it in Unicode NFC form, so names decoded
// from JSON and from percent-encoded HTML compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// EnsureExists returns the account called name, creating it and any missing
// ancestors. Every account it creates is stored in existing and appended to
// created; accounts already in existing are left alone.
func EnsureExists(name string, existing map[string]*model.Account, created *[]*model.Account) *model.Account {
	segments := strings.Split(name, model.AccountSeparator)
	var leaf *model.Account
	for i := range segments {
		prefix := strings.Join(segments[:i+1], model.AccountSeparator)
		acc, ok := existing[prefix]
		if !ok {
			a := model.NewAccount(prefix)
			acc = &a
			existing[prefix] = acc
			if created != nil {
				*created = append(*created, acc)
			}
		}
		leaf = acc
	}
	return leaf
}

// Builder collects accounts by name and completes the hierarchy.
type Builder struct {
	byName  map[string]*model.Account
	order   []*model.Account
	created []*model.Account
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]*model.Account)}
}

// Add records an account reported by the server. The first account added
// under a name wins; Add reports whether a was stored.
func (b *Builder) Add(a model.Account) (*model.Account, bool) {
	a.Name = NormalizeName(a.Name)
	if existing, ok := b.byName[a.Name]; ok {
		return existing, false
	}
	a.Level = model.AccountLevel(a.Name)
	a.ParentName = model.ParentName(a.Name)
	acc := &a
	b.byName[a.Name] = acc
	b.order = append(b.order, acc)
	return acc, true
}

// Get returns the account called name.
func (b *Builder) Get(name string) (*model.Account, bool) {
	a, ok := b.byName[name]
	return a, ok
}

// Exists reports whether an account called name has been added or created.
func (b *Builder) Exists(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Created returns the ancestors synthesized by Build.
func (b *Builder) Created() []*model.Account {
	return b.created
}

// Build synthesizes missing ancestors for every added account and returns
// the full set ordered parent-before-child.
func (b *Builder) Build() []model.Account {
	for _, a := range b.order {
		if a.ParentName != "" {
			EnsureExists(a.ParentName, b.byName, &b.created)
		}
	}

	out := make([]model.Account, 0, len(b.byName))
	for _, a := range b.byName {
		out = append(out, *a)
	}
	SortByName(out)
	return out
}

// SortByName orders accounts segment by segment, so every account follows
// its parent and siblings stay together.
func SortByName(accts []model.Account) {
	slices.SortFunc(accts, func(a, b model.Account) int {
		return slices.Compare(
			strings.Split(a.Name, model.AccountSeparator),
			strings.Split(b.Name, model.AccountSeparator),
		)
	})
}
