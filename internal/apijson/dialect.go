package apijson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// dialect describes how one hledger-web API generation shapes its JSON.
type dialect struct {
	version model.APIVersion

	// ptransaction_ is a JSON string from 1.32 on, a number before.
	textTransactionIndex bool
	// asdecimalmark replaced asdecimalpoint in 1.32.
	decimalMarkField string
	// asprecision was a tagged object in 1.19.1 only.
	taggedPrecision bool
	// 1.50 moved balances into adata.pdperiods.
	periodBalances bool
	// 1.50 turned tsourcepos into a list.
	sourcePosList bool
}

const (
	fieldDecimalPoint = "asdecimalpoint"
	fieldDecimalMark  = "asdecimalmark"
)

var dialects = []dialect{
	{version: model.V(1, 14, 0), decimalMarkField: fieldDecimalPoint},
	{version: model.V(1, 15, 0), decimalMarkField: fieldDecimalPoint},
	{version: model.V(1, 19, 1), decimalMarkField: fieldDecimalPoint, taggedPrecision: true},
	{version: model.V(1, 23, 0), decimalMarkField: fieldDecimalPoint},
	{version: model.V(1, 32, 0), decimalMarkField: fieldDecimalMark, textTransactionIndex: true},
	{version: model.V(1, 40, 0), decimalMarkField: fieldDecimalMark, textTransactionIndex: true},
	{version: model.V(1, 50, 0), decimalMarkField: fieldDecimalMark, textTransactionIndex: true, periodBalances: true, sourcePosList: true},
}

// SchemaError reports JSON that is well-formed but shaped for a different
// API generation.
type SchemaError struct {
	Version model.APIVersion
	Field   string
	Reason  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("api %s: %s: %s", e.Version, e.Field, e.Reason)
}

// TruncatedError reports a response body that ended before a complete JSON
// document, including an empty body.
type TruncatedError struct {
	Version model.APIVersion
	What    string
	Err     error
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("api %s: decoding %s: body ends early: %v", e.Version, e.What, e.Err)
}

func (e *TruncatedError) Unwrap() error { return e.Err }

// decode reads one JSON document from r into v. The decoder reports an
// empty or cut-off document as io.EOF or io.ErrUnexpectedEOF; other read
// failures pass through unchanged.
func (d dialect) decode(r io.Reader, what string, v any) error {
	err := json.NewDecoder(r).Decode(v)
	switch {
	case err == nil:
		return nil
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		return &TruncatedError{Version: d.version, What: what, Err: err}
	}
	return fmt.Errorf("decoding %s: %w", what, err)
}

func (d dialect) schemaErr(field, format string, args ...any) error {
	return &SchemaError{Version: d.version, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// jsonKind returns the first significant byte of a raw value, or 0 for
// absent and null values.
func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	return raw[0]
}

func isNumberKind(k byte) bool {
	return k == '-' || (k >= '0' && k <= '9')
}

func (d dialect) checkStyle(raw json.RawMessage) error {
	if jsonKind(raw) == 0 {
		return nil
	}
	var style map[string]json.RawMessage
	if err := json.Unmarshal(raw, &style); err != nil {
		return fmt.Errorf("decoding astyle: %w", err)
	}

	other := fieldDecimalPoint
	if d.decimalMarkField == fieldDecimalPoint {
		other = fieldDecimalMark
	}
	if _, ok := style[other]; ok {
		return d.schemaErr("astyle."+other, "field not used by this version")
	}
	if mark, ok := style[d.decimalMarkField]; ok {
		if k := jsonKind(mark); k != 0 && k != '"' {
			return d.schemaErr("astyle."+d.decimalMarkField, "expected a string")
		}
	}

	if prec, ok := style["asprecision"]; ok {
		k := jsonKind(prec)
		switch {
		case k == 0:
		case d.taggedPrecision && k != '{':
			return d.schemaErr("astyle.asprecision", "expected a tagged object")
		case !d.taggedPrecision && !isNumberKind(k):
			return d.schemaErr("astyle.asprecision", "expected a number")
		}
	}
	return nil
}

func (d dialect) checkTransactionIndex(raw json.RawMessage) error {
	k := jsonKind(raw)
	switch {
	case k == 0:
		return nil
	case d.textTransactionIndex && k != '"':
		return d.schemaErr("ptransaction_", "expected a string")
	case !d.textTransactionIndex && !isNumberKind(k):
		return d.schemaErr("ptransaction_", "expected a number")
	}
	return nil
}

func (d dialect) checkSourcePos(raw json.RawMessage) error {
	k := jsonKind(raw)
	switch {
	case k == 0:
		return nil
	case d.sourcePosList && k != '[':
		return d.schemaErr("tsourcepos", "expected a list")
	case !d.sourcePosList && k != '{':
		return d.schemaErr("tsourcepos", "expected an object")
	}
	return nil
}
