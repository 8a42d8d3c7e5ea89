// Package syncer runs one sync cycle for a profile: fetch accounts and
// transactions over JSON or from the HTML journal, then persist them.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Yus314/MoLe-sub005/internal/apijson"
	"github.com/Yus314/MoLe-sub005/internal/fetch"
	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/legacy"
	"github.com/Yus314/MoLe-sub005/internal/model"
	"github.com/Yus314/MoLe-sub005/internal/persist"
	"github.com/Yus314/MoLe-sub005/internal/syncerr"
)

// Method says where the data of a sync came from.
type Method string

const (
	MethodJSON Method = "json"
	MethodHTML Method = "html"
)

// Saver commits a complete sync result. *persist.Service implements it.
type Saver interface {
	Save(ctx context.Context, profile model.Profile, accounts []model.Account, txs []model.Transaction) error
}

// Result describes a finished sync cycle.
type Result struct {
	RunID        string
	Accounts     []model.Account
	Transactions []model.Transaction
	Method       Method
	// Version is the JSON API generation used, or model.HTML.
	Version  model.APIVersion
	Duration time.Duration
}

// Syncer runs sync cycles.
type Syncer struct {
	fetcher *fetch.Fetcher
	scraper *legacy.Scraper
	saver   Saver
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Syncer.
type Option func(*options)

type options struct {
	registry *apijson.Registry
	logger   *log.Logger
	now      func() time.Time
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry replaces apijson.DefaultRegistry.
func WithRegistry(r *apijson.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithClock overrides the clock used to time runs.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a Syncer that fetches through client and commits with saver.
func New(client hledger.Client, saver Saver, opts ...Option) *Syncer {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	return &Syncer{
		fetcher: fetch.New(client, o.registry, o.logger),
		scraper: legacy.New(client, o.logger),
		saver:   saver,
		logger:  o.logger,
		now:     o.now,
	}
}

// Sync runs one cycle. Fetch failures come back as *syncerr.Error; a
// cancelled ctx always yields syncerr.KindCancelled. Nothing is persisted
// unless the whole fetch succeeded. Persistence errors are returned as is.
func (s *Syncer) Sync(ctx context.Context, profile model.Profile, onProgress fetch.ProgressFunc) (Result, error) {
	if !profile.Persisted() {
		return Result{}, fmt.Errorf("syncing %q: %w", profile.Name, persist.ErrProfileNotPersisted)
	}

	runID := uuid.NewString()
	start := s.now()
	s.logger.Printf("run %s: syncing profile %q from %s (api %s)", runID, profile.Name, profile.URL, profile.APIVersion)

	res, err := s.fetch(ctx, profile, onProgress)
	if err == nil {
		err = ctx.Err()
	}
	res.RunID = runID
	if err != nil {
		res.Duration = s.now().Sub(start)
		serr := classify(ctx, err)
		s.logger.Printf("run %s: failed after %s: %v", runID, res.Duration, serr)
		return res, serr
	}

	s.logger.Printf("run %s: fetched %d accounts and %d transactions via %s (%s)",
		runID, len(res.Accounts), len(res.Transactions), res.Method, res.Version)

	if err := s.saver.Save(ctx, profile, res.Accounts, res.Transactions); err != nil {
		res.Duration = s.now().Sub(start)
		s.logger.Printf("run %s: persisting failed: %v", runID, err)
		return res, fmt.Errorf("persisting sync: %w", err)
	}

	res.Duration = s.now().Sub(start)
	s.logger.Printf("run %s: done in %s", runID, res.Duration)
	return res, nil
}

func classify(ctx context.Context, err error) *syncerr.Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return syncerr.Cancelled(err)
	}
	return syncerr.Map(err)
}

func (s *Syncer) fetch(ctx context.Context, profile model.Profile, onProgress fetch.ProgressFunc) (Result, error) {
	accts, err := s.fetcher.Accounts(ctx, profile)
	if err != nil {
		return Result{}, fmt.Errorf("fetching accounts: %w", err)
	}
	if accts.Kind != fetch.Parsed {
		s.logger.Printf("accounts: %s, reading the journal page", accts.Kind)
		return s.scrape(ctx, profile, 0, onProgress)
	}

	expected := accts.Data.ExpectedPostings
	txs, err := s.fetcher.Transactions(ctx, profile, expected, onProgress)
	if err != nil {
		return Result{}, fmt.Errorf("fetching transactions: %w", err)
	}
	if txs.Kind != fetch.Parsed {
		s.logger.Printf("transactions: %s, reading the journal page", txs.Kind)
		return s.scrape(ctx, profile, expected, onProgress)
	}

	return Result{
		Accounts:     accts.Data.Accounts,
		Transactions: txs.Data,
		Method:       MethodJSON,
		Version:      txs.Version,
	}, nil
}

func (s *Syncer) scrape(ctx context.Context, profile model.Profile, expected int, onProgress fetch.ProgressFunc) (Result, error) {
	page, err := s.scraper.Parse(ctx, profile, expected, onProgress)
	if err != nil {
		return Result{}, fmt.Errorf("reading journal page: %w", err)
	}
	return Result{
		Accounts:     page.Accounts,
		Transactions: page.Transactions,
		Method:       MethodHTML,
		Version:      model.HTML,
	}, nil
}
