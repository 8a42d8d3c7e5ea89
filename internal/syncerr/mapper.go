package syncerr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/Yus314/MoLe-sub005/internal/amount"
	"github.com/Yus314/MoLe-sub005/internal/apijson"
	"github.com/Yus314/MoLe-sub005/internal/fetch"
	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/legacy"
)

// Map classifies err. An *Error anywhere in the chain is returned as is;
// everything else is wrapped so the original error stays reachable.
// Map returns nil for a nil error.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.Canceled) {
		return Cancelled(err)
	}
	if errors.Is(err, fetch.ErrNoAPIVersion) {
		return APIVersion(err)
	}

	// A 403 is reported as a 401; the cause keeps the real status.
	var authErr *hledger.AuthError
	if errors.As(err, &authErr) {
		return Authentication(401, err)
	}
	var statusErr *hledger.StatusError
	if errors.As(err, &statusErr) {
		return Server(statusErr.StatusCode, err)
	}
	var notFound *hledger.NotFoundError
	if errors.As(err, &notFound) {
		return Server(404, err)
	}

	if isTimeout(err) {
		return Timeout(err)
	}
	if isParse(err) {
		return Parse(err)
	}
	if isNetwork(err) {
		return Network(err)
	}
	return Unknown(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func isParse(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		timeErr   *time.ParseError
		schemaErr *apijson.SchemaError
		cutErr    *apijson.TruncatedError
		scrapeErr *legacy.ParseError
		numErr    *strconv.NumError
	)
	switch {
	case errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &timeErr),
		errors.As(err, &schemaErr),
		errors.As(err, &cutErr),
		errors.As(err, &scrapeErr),
		errors.As(err, &numErr),
		errors.Is(err, amount.ErrInvalid),
		errors.Is(err, amount.ErrBothCurrencies),
		errors.Is(err, amount.ErrOutOfRange):
		return true
	}
	return false
}

func isNetwork(err error) bool {
	var (
		urlErr *url.Error
		netErr net.Error
		opErr  *net.OpError
	)
	switch {
	case errors.As(err, &urlErr),
		errors.As(err, &netErr),
		errors.As(err, &opErr),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return true
	}
	return false
}
