// Package fetch retrieves accounts and transactions through the hledger-web
// JSON API, negotiating the API generation when the profile asks for it.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Yus314/MoLe-sub005/internal/accounts"
	"github.com/Yus314/MoLe-sub005/internal/apijson"
	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

// ErrNoAPIVersion is returned when no known API generation can decode the
// server's response.
var ErrNoAPIVersion = errors.New("no api version matched")

// OutcomeKind says what a fetch produced.
type OutcomeKind int

const (
	// Parsed means Data holds the decoded payload.
	Parsed OutcomeKind = iota
	// NotFound means the server has no JSON endpoint; use the HTML journal.
	NotFound
	// VersionUnsupported means the profile is configured for HTML only.
	VersionUnsupported
)

func (k OutcomeKind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case NotFound:
		return "not found"
	case VersionUnsupported:
		return "version unsupported"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the result of a fetch. Version is the API generation that
// decoded Data.
type Outcome[T any] struct {
	Kind    OutcomeKind
	Data    T
	Version model.APIVersion
}

// AccountResult is a complete account tree plus the number of postings the
// server reported across all accounts.
type AccountResult struct {
	Accounts         []model.Account
	ExpectedPostings int
}

// ProgressFunc receives the postings processed so far and the total expected.
type ProgressFunc func(processed, total int)

const (
	accountsPath     = "accounts"
	transactionsPath = "transactions"
	rootAccount      = "root"
)

// Fetcher fetches through the JSON API.
type Fetcher struct {
	client   hledger.Client
	registry *apijson.Registry
	logger   *log.Logger
}

// New creates a Fetcher. A nil registry means apijson.DefaultRegistry and a
// nil logger discards output.
func New(client hledger.Client, registry *apijson.Registry, logger *log.Logger) *Fetcher {
	if registry == nil {
		registry = apijson.DefaultRegistry()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Fetcher{client: client, registry: registry, logger: logger}
}

// Accounts fetches the account list and completes its hierarchy.
func (f *Fetcher) Accounts(ctx context.Context, profile model.Profile) (Outcome[AccountResult], error) {
	out, err := negotiate(ctx, f, profile, accountsPath, apijson.Parser.ParseAccounts)
	if err != nil || out.Kind != Parsed {
		return Outcome[AccountResult]{Kind: out.Kind, Version: out.Version}, err
	}

	b := accounts.NewBuilder()
	expected := 0
	for _, la := range out.Data {
		if la.Name == rootAccount {
			continue
		}
		expected += la.Postings
		acc := model.NewAccount(la.Name)
		acc.Amounts = la.Amounts
		if _, added := b.Add(acc); !added {
			f.logger.Printf("duplicate account %q in server response, keeping the first", la.Name)
		}
	}

	return Outcome[AccountResult]{
		Kind:    Parsed,
		Version: out.Version,
		Data: AccountResult{
			Accounts:         b.Build(),
			ExpectedPostings: expected,
		},
	}, nil
}

// Transactions fetches the transaction list, newest first. onProgress, if
// set, is called after each transaction when expectedPostings > 0.
func (f *Fetcher) Transactions(ctx context.Context, profile model.Profile, expectedPostings int, onProgress ProgressFunc) (Outcome[[]model.Transaction], error) {
	out, err := negotiate(ctx, f, profile, transactionsPath, apijson.Parser.ParseTransactions)
	if err != nil || out.Kind != Parsed {
		return out, err
	}

	processed := 0
	for _, tx := range out.Data {
		if err := ctx.Err(); err != nil {
			return Outcome[[]model.Transaction]{}, err
		}
		processed += len(tx.Lines)
		if expectedPostings > 0 && onProgress != nil {
			onProgress(processed, expectedPostings)
		}
	}

	model.SortTransactions(out.Data)
	return out, nil
}

// negotiate fetches path and decodes it with the parser(s) the profile's API
// version calls for.
func negotiate[T any](ctx context.Context, f *Fetcher, profile model.Profile, path string,
	decode func(apijson.Parser, io.Reader) (T, error)) (Outcome[T], error) {

	switch profile.APIVersion.Kind {
	case model.APIHTML:
		return Outcome[T]{Kind: VersionUnsupported}, nil

	case model.APIConcrete:
		p := f.registry.Get(profile.APIVersion)
		if p == nil {
			return Outcome[T]{}, fmt.Errorf("%w: api %s is not supported", ErrNoAPIVersion, profile.APIVersion)
		}
		data, notFound, err := fetchWith(ctx, f.client, profile, path, p, decode)
		if notFound {
			return Outcome[T]{Kind: NotFound}, nil
		}
		if err != nil {
			return Outcome[T]{}, err
		}
		return Outcome[T]{Kind: Parsed, Data: data, Version: p.Version()}, nil

	case model.APIAuto:
		var lastErr error
		for _, p := range f.candidates(profile.DetectedVersion) {
			data, notFound, err := fetchWith(ctx, f.client, profile, path, p, decode)
			if notFound {
				f.logger.Printf("%s: endpoint not found, falling back to HTML", path)
				return Outcome[T]{Kind: NotFound}, nil
			}
			var de *decodeError
			if errors.As(err, &de) {
				f.logger.Printf("%s: api %s does not match: %v", path, p.Version(), de.err)
				lastErr = de.err
				continue
			}
			if err != nil {
				return Outcome[T]{}, err
			}
			f.logger.Printf("%s: decoded with api %s", path, p.Version())
			return Outcome[T]{Kind: Parsed, Data: data, Version: p.Version()}, nil
		}
		if lastErr == nil {
			return Outcome[T]{}, ErrNoAPIVersion
		}
		return Outcome[T]{}, fmt.Errorf("%w: %w", ErrNoAPIVersion, lastErr)
	}

	return Outcome[T]{}, fmt.Errorf("unknown api version kind %d", profile.APIVersion.Kind)
}

// decodeError marks a failure to decode a response that did arrive.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// fetchWith performs one request and decodes the body with p. A 404 is
// reported through notFound rather than err.
func fetchWith[T any](ctx context.Context, client hledger.Client, profile model.Profile, path string,
	p apijson.Parser, decode func(apijson.Parser, io.Reader) (T, error)) (data T, notFound bool, err error) {

	body, err := client.Get(ctx, profile, path)
	if err != nil {
		var nf *hledger.NotFoundError
		if errors.As(err, &nf) {
			return data, true, nil
		}
		return data, false, err
	}
	defer body.Close()

	if err := ctx.Err(); err != nil {
		return data, false, err
	}

	data, err = decode(p, body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return data, false, ctxErr
		}
		return data, false, &decodeError{err: err}
	}
	return data, false, nil
}

// candidates returns the parsers to try in auto mode: newest first, except
// that the newest one not newer than the detected server version leads.
func (f *Fetcher) candidates(detected *model.ServerVersion) []apijson.Parser {
	all := f.registry.Candidates()
	if detected == nil || detected.Legacy {
		return all
	}
	dv := model.V(detected.Major, detected.Minor, detected.Patch)
	for i, p := range all {
		if p.Version().Compare(dv) <= 0 {
			ordered := make([]apijson.Parser, 0, len(all))
			ordered = append(ordered, p)
			ordered = append(ordered, all[:i]...)
			return append(ordered, all[i+1:]...)
		}
	}
	return all
}
