package syncerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yus314/MoLe-sub005/internal/amount"
	"github.com/Yus314/MoLe-sub005/internal/apijson"
	"github.com/Yus314/MoLe-sub005/internal/fetch"
	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/legacy"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func jsonSyntaxErr() error {
	var v any
	return json.Unmarshal([]byte("{oops"), &v)
}

func TestMapHTTPFailures(t *testing.T) {
	auth := &hledger.AuthError{URL: "http://x/accounts", StatusCode: 401}
	got := Map(auth)
	require.NotNil(t, got)
	assert.Equal(t, KindAuthentication, got.Kind)
	assert.Equal(t, 401, got.HTTPCode)
	assert.Same(t, auth, got.Cause)
	assert.ErrorIs(t, got, auth)

	server := &hledger.StatusError{URL: "http://x/accounts", StatusCode: 500}
	got = Map(server)
	assert.Equal(t, KindServer, got.Kind)
	assert.Equal(t, 500, got.HTTPCode)
	assert.Same(t, server, got.Cause)
	assert.True(t, got.Retryable())

	got = Map(&hledger.StatusError{StatusCode: 418})
	assert.Equal(t, 418, got.HTTPCode)
	assert.False(t, got.Retryable())

	got = Map(&hledger.NotFoundError{URL: "http://x/journal"})
	assert.Equal(t, KindServer, got.Kind)
	assert.Equal(t, 404, got.HTTPCode)

	got = Map(&hledger.AuthError{})
	assert.Equal(t, 401, got.HTTPCode)

	forbidden := &hledger.AuthError{URL: "http://x/accounts", StatusCode: 403}
	got = Map(forbidden)
	assert.Equal(t, KindAuthentication, got.Kind)
	assert.Equal(t, 401, got.HTTPCode)
	assert.Same(t, forbidden, got.Cause)
}

func TestMapKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"cancelled", context.Canceled, KindCancelled},
		{"wrapped cancelled", fmt.Errorf("fetching: %w", &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}), KindCancelled},
		{"deadline", fmt.Errorf("waiting: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", &url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}, KindTimeout},
		{"malformed url", &url.Error{Op: "parse", URL: "::", Err: errors.New("missing protocol scheme")}, KindNetwork},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, KindNetwork},
		{"truncated body", fmt.Errorf("reading: %w", io.ErrUnexpectedEOF), KindNetwork},
		{"json syntax", jsonSyntaxErr(), KindParse},
		{"json type", &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(int64(0)), Field: "tindex"}, KindParse},
		{"date", func() error { _, err := model.ParseDate("nope"); return err }(), KindParse},
		{"empty body", fmt.Errorf("fetching accounts: %w", &apijson.TruncatedError{Version: model.V(1, 32, 0), What: "accounts", Err: io.EOF}), KindParse},
		{"cut-off body", &apijson.TruncatedError{Version: model.V(1, 40, 0), What: "transactions", Err: io.ErrUnexpectedEOF}, KindParse},
		{"schema", &apijson.SchemaError{Version: model.V(1, 50, 0), Field: "adata"}, KindParse},
		{"scrape", &legacy.ParseError{Line: 3, Reason: "no date"}, KindParse},
		{"amount", func() error { _, err := amount.Parse("x"); return err }(), KindParse},
		{"no api version", fmt.Errorf("%w: %w", fetch.ErrNoAPIVersion, jsonSyntaxErr()), KindAPIVersion},
		{"unknown", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Same(t, tt.err, got.Cause)
			assert.NotEmpty(t, got.UserMessage())
		})
	}
}

func TestMapPassesClassifiedThrough(t *testing.T) {
	orig := Authentication(401, errors.New("denied"))
	assert.Same(t, orig, Map(orig))
	assert.Same(t, orig, Map(fmt.Errorf("sync: %w", orig)))
}

func TestMapNil(t *testing.T) {
	assert.Nil(t, Map(nil))
}

func TestErrorString(t *testing.T) {
	err := Server(503, errors.New("unavailable"))
	assert.Equal(t, "server error (HTTP 503): unavailable", err.Error())
	assert.Equal(t, "cancelled error", Cancelled(nil).Error())
}

func TestRetryable(t *testing.T) {
	assert.True(t, Network(nil).Retryable())
	assert.True(t, Timeout(nil).Retryable())
	assert.False(t, Authentication(401, nil).Retryable())
	assert.False(t, Parse(nil).Retryable())
	assert.False(t, APIVersion(nil).Retryable())
	assert.False(t, Cancelled(nil).Retryable())
	assert.False(t, Unknown(nil).Retryable())
}

func TestUserMessages(t *testing.T) {
	assert.Contains(t, Authentication(401, nil).UserMessage(), "credentials")
	assert.Contains(t, Timeout(nil).UserMessage(), "connection")
	assert.Contains(t, Server(502, nil).UserMessage(), "502")
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
