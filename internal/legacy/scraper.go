// Package legacy reads accounts and transactions from the HTML journal page
// of hledger-web servers that have no JSON API.
package legacy

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Yus314/MoLe-sub005/internal/accounts"
	"github.com/Yus314/MoLe-sub005/internal/amount"
	"github.com/Yus314/MoLe-sub005/internal/fetch"
	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

const journalPath = "journal"

// State is the position of the scanner in the journal page.
type State int

const (
	// ExpectingAccountOrHeader reads the account sidebar until the journal heading.
	ExpectingAccountOrHeader State = iota
	// InTransactionTitle waits for a transaction's title or posting row.
	InTransactionTitle
	// InPosting reads posting lines until a blank line.
	InPosting
	// Done ignores the rest of the page.
	Done
)

func (s State) String() string {
	switch s {
	case ExpectingAccountOrHeader:
		return "ExpectingAccountOrHeader"
	case InTransactionTitle:
		return "InTransactionTitle"
	case InPosting:
		return "InPosting"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	reComment       = regexp.MustCompile(`^\s*;`)
	reAccountLink   = regexp.MustCompile(`/register\?q=inacct%3A([^"&]+)"`)
	reAmountSpan    = regexp.MustCompile(`<span class="[^"]*\bamount\b[^"]*">([^<]*)</span>`)
	reEnd           = regexp.MustCompile(`\bid="addmodal"`)
	reTransactionID = regexp.MustCompile(`id="transaction-(\d+)"`)
	reDateCell      = regexp.MustCompile(`<td class="date"[^>]*>\s*([^<]*?)\s*</td>`)
	rePostingRow    = regexp.MustCompile(`<tr class="posting" title="(\S+)(?:\s+([^"]*))?`)
	rePostingLine   = regexp.MustCompile(`^\s+(?:[!*]\s+)?(\S(?:.*?\S)?)\s{2,}(\S.*?)\s*$`)
)

const (
	journalHeading = "<h2>General Journal</h2>"
	titleRow       = `<tr class="title"`
	postingRow     = `<tr class="posting"`
)

// ParseError is returned when a transaction row lacks a required element.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("journal line %d: %s", e.Line, e.Reason)
}

// Result is everything read from the journal page.
type Result struct {
	Accounts     []model.Account
	Transactions []model.Transaction
}

// Scraper fetches and parses the journal page.
type Scraper struct {
	client hledger.Client
	logger *log.Logger
}

// New creates a Scraper. A nil logger discards output.
func New(client hledger.Client, logger *log.Logger) *Scraper {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scraper{client: client, logger: logger}
}

// Parse fetches the journal page and reads it in one pass. Progress is
// reported per transaction when expectedPostings > 0.
func (s *Scraper) Parse(ctx context.Context, profile model.Profile, expectedPostings int, onProgress fetch.ProgressFunc) (Result, error) {
	body, err := s.client.Get(ctx, profile, journalPath)
	if err != nil {
		return Result{}, err
	}
	defer body.Close()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return s.Read(ctx, body, expectedPostings, onProgress)
}

// Read parses a journal page from r.
func (s *Scraper) Read(ctx context.Context, r io.Reader, expectedPostings int, onProgress fetch.ProgressFunc) (Result, error) {
	p := &pageParser{
		ctx:        ctx,
		logger:     s.logger,
		builder:    accounts.NewBuilder(),
		expected:   expectedPostings,
		onProgress: onProgress,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for p.state != Done && sc.Scan() {
		p.lineNo++
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := p.line(sc.Text()); err != nil {
			return Result{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("reading journal: %w", err)
	}
	if err := p.finish(); err != nil {
		return Result{}, err
	}

	model.SortTransactions(p.txs)
	return Result{Accounts: p.accounts, Transactions: p.txs}, nil
}

// pageParser holds the state of one pass over a journal page.
type pageParser struct {
	ctx    context.Context
	logger *log.Logger
	state  State
	lineNo int

	builder  *accounts.Builder
	current  *model.Account
	accounts []model.Account
	built    bool

	txs []model.Transaction
	tx  *model.Transaction

	processed  int
	expected   int
	onProgress fetch.ProgressFunc
}

func (p *pageParser) line(line string) error {
	if reComment.MatchString(line) {
		return nil
	}

	switch p.state {
	case ExpectingAccountOrHeader:
		if strings.Contains(line, journalHeading) {
			p.buildAccounts()
			p.state = InTransactionTitle
			return nil
		}
		if m := reAccountLink.FindStringSubmatch(line); m != nil {
			p.openAccount(m[1])
		}
		for _, m := range reAmountSpan.FindAllStringSubmatch(line, -1) {
			p.addAccountAmount(m[1])
		}

	case InTransactionTitle:
		if reEnd.MatchString(line) {
			p.state = Done
			return p.commit()
		}
		if strings.Contains(line, titleRow) {
			if err := p.commit(); err != nil {
				return err
			}
			return p.startTransaction(line)
		}
		if p.tx != nil && strings.Contains(line, postingRow) {
			if m := rePostingRow.FindStringSubmatch(line); m != nil {
				p.tx.Description = html.UnescapeString(strings.TrimSpace(m[2]))
			}
			p.state = InPosting
		}

	case InPosting:
		switch {
		case reEnd.MatchString(line):
			p.state = Done
			return p.commit()
		case strings.TrimSpace(line) == "":
			p.state = InTransactionTitle
			return p.commit()
		case strings.Contains(line, titleRow):
			if err := p.commit(); err != nil {
				return err
			}
			p.state = InTransactionTitle
			return p.startTransaction(line)
		default:
			p.addPosting(line)
		}
	}
	return nil
}

func (p *pageParser) openAccount(encoded string) {
	name, err := url.QueryUnescape(encoded)
	if err != nil {
		p.logger.Printf("journal line %d: skipping account link %q: %v", p.lineNo, encoded, err)
		p.current = nil
		return
	}
	name = strings.ReplaceAll(name, `"`, "")
	if strings.TrimSpace(name) == "" {
		p.current = nil
		return
	}

	acc, added := p.builder.Add(model.NewAccount(name))
	if !added {
		// Seen before: its amounts were already counted.
		p.current = nil
		return
	}
	p.current = acc
}

func (p *pageParser) addAccountAmount(text string) {
	if p.current == nil {
		return
	}
	a, err := amount.Parse(html.UnescapeString(text))
	if err != nil {
		p.logger.Printf("journal line %d: skipping amount for %s: %v", p.lineNo, p.current.Name, err)
		return
	}
	p.current.AddAmount(a.Currency, a.Value)
}

func (p *pageParser) buildAccounts() {
	if p.built {
		return
	}
	p.accounts = p.builder.Build()
	p.current = nil
	p.built = true
}

func (p *pageParser) startTransaction(line string) error {
	m := reTransactionID.FindStringSubmatch(line)
	if m == nil {
		return &ParseError{Line: p.lineNo, Reason: "transaction row without ledger id"}
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return &ParseError{Line: p.lineNo, Reason: fmt.Sprintf("bad ledger id %q", m[1])}
	}

	d := reDateCell.FindStringSubmatch(line)
	if d == nil || d[1] == "" {
		return &ParseError{Line: p.lineNo, Reason: fmt.Sprintf("transaction %d without date", id)}
	}
	// "primary=secondary": the secondary date wins.
	raw := d[1]
	if _, secondary, ok := strings.Cut(raw, "="); ok {
		raw = secondary
	}
	date, err := model.ParseDate(raw)
	if err != nil {
		return &ParseError{Line: p.lineNo, Reason: fmt.Sprintf("transaction %d: bad date %q", id, d[1])}
	}

	p.tx = &model.Transaction{LedgerID: id, Date: date}
	return nil
}

func (p *pageParser) addPosting(line string) {
	m := rePostingLine.FindStringSubmatch(line)
	if m == nil {
		return
	}
	text, comment, _ := strings.Cut(m[2], ";")
	a, err := amount.Parse(html.UnescapeString(text))
	if err != nil {
		p.logger.Printf("journal line %d: skipping posting: %v", p.lineNo, err)
		return
	}
	p.tx.Lines = append(p.tx.Lines, model.TransactionLine{
		AccountName: accounts.NormalizeName(html.UnescapeString(m[1])),
		Amount:      a.Value,
		Currency:    a.Currency,
		Comment:     strings.TrimSpace(comment),
	})
}

// commit stores the pending transaction, if any.
func (p *pageParser) commit() error {
	if p.tx == nil {
		return nil
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.txs = append(p.txs, *p.tx)
	p.processed += len(p.tx.Lines)
	p.tx = nil
	if p.expected > 0 && p.onProgress != nil {
		p.onProgress(p.processed, p.expected)
	}
	return nil
}

func (p *pageParser) finish() error {
	p.buildAccounts()
	return p.commit()
}
