// Package synclog keeps a CSV history of sync runs in logs/sync-history.csv.
package synclog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one sync run.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	Profile      string
	Method       string
	Version      string
	Accounts     int
	Transactions int
	Duration     time.Duration
	ErrorKind    string // empty on success
}

// OK reports whether the run succeeded.
func (e Entry) OK() bool { return e.ErrorKind == "" }

// Header is the CSV header for sync-history.csv.
const Header = "timestamp,run_id,profile,method,version,accounts,transactions,duration_ms,error_kind"

const (
	numFields       = 9
	logDir          = "logs"
	logFile         = "logs/sync-history.csv"
	colTimestamp    = 0
	colRunID        = 1
	colProfile      = 2
	colMethod       = 3
	colVersion      = 4
	colAccounts     = 5
	colTransactions = 6
	colDuration     = 7
	colErrorKind    = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colProfile] = e.Profile
	row[colMethod] = e.Method
	row[colVersion] = e.Version
	row[colAccounts] = strconv.Itoa(e.Accounts)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colDuration] = strconv.FormatInt(e.Duration.Milliseconds(), 10)
	row[colErrorKind] = e.ErrorKind
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	accounts, err := strconv.Atoi(record[colAccounts])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing accounts %q: %w", record[colAccounts], err)
	}
	txs, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}
	ms, err := strconv.ParseInt(record[colDuration], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing duration %q: %w", record[colDuration], err)
	}

	return Entry{
		Timestamp:    ts,
		RunID:        record[colRunID],
		Profile:      record[colProfile],
		Method:       record[colMethod],
		Version:      record[colVersion],
		Accounts:     accounts,
		Transactions: txs,
		Duration:     time.Duration(ms) * time.Millisecond,
		ErrorKind:    record[colErrorKind],
	}, nil
}

// Append writes entries to <dir>/logs/sync-history.csv, creating the file and
// header if needed.
func Append(dir string, entries ...Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening sync history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/sync-history.csv, oldest first.
// It returns nil if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening sync history: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Last returns the newest n entries for profile, newest first. An empty
// profile matches every entry.
func Last(entries []Entry, profile string, n int) []Entry {
	var out []Entry
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		if profile == "" || entries[i].Profile == profile {
			out = append(out, entries[i])
		}
	}
	return out
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sync history CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
