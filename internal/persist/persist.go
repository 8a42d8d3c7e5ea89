// Package persist commits a fetched account and transaction set for a
// profile, keeping the user's view state of accounts that already existed.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// ErrProfileNotPersisted is returned when syncing a profile that has no id.
var ErrProfileNotPersisted = errors.New("profile has not been saved")

// AccountRepository stores accounts per profile.
type AccountRepository interface {
	// GetByName reports whether an account exists and returns it.
	GetByName(ctx context.Context, profileID int64, name string) (model.Account, bool, error)
	// StoreAccounts replaces every account of the profile.
	StoreAccounts(ctx context.Context, profileID int64, accounts []model.Account) error
}

// TransactionRepository stores transactions per profile.
type TransactionRepository interface {
	// StoreTransactions replaces every transaction of the profile.
	StoreTransactions(ctx context.Context, profileID int64, txs []model.Transaction) error
}

// OptionRepository stores per-profile settings.
type OptionRepository interface {
	SetLastSyncTimestamp(ctx context.Context, profileID int64, at time.Time) error
}

// Service writes sync results through the repositories.
type Service struct {
	accounts     AccountRepository
	transactions TransactionRepository
	options      OptionRepository
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for the last-sync timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(accounts AccountRepository, transactions TransactionRepository, options OptionRepository, opts ...Option) *Service {
	s := &Service{
		accounts:     accounts,
		transactions: transactions,
		options:      options,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save reconciles accounts against the stored ones, then replaces the
// profile's accounts and transactions and records the sync time.
func (s *Service) Save(ctx context.Context, profile model.Profile, accounts []model.Account, txs []model.Transaction) error {
	if !profile.Persisted() {
		return fmt.Errorf("saving sync of %q: %w", profile.Name, ErrProfileNotPersisted)
	}

	merged := make([]model.Account, len(accounts))
	for i, acc := range accounts {
		prev, ok, err := s.accounts.GetByName(ctx, profile.ID, acc.Name)
		if err != nil {
			return fmt.Errorf("looking up account %q: %w", acc.Name, err)
		}
		if ok {
			acc.IsExpanded = prev.IsExpanded
			acc.AmountsExpanded = prev.AmountsExpanded
		} else {
			acc.IsExpanded = true
			acc.AmountsExpanded = false
		}
		merged[i] = acc
	}

	if err := s.accounts.StoreAccounts(ctx, profile.ID, merged); err != nil {
		return fmt.Errorf("storing accounts: %w", err)
	}
	if err := s.transactions.StoreTransactions(ctx, profile.ID, txs); err != nil {
		return fmt.Errorf("storing transactions: %w", err)
	}
	if err := s.options.SetLastSyncTimestamp(ctx, profile.ID, s.now()); err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}
	return nil
}
