// Package hledgertest provides a scripted hledger.Client for tests.
package hledgertest

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

// Response is one scripted reply.
type Response struct {
	Body string
	Err  error
}

// Client replays scripted responses per path. The last response queued for
// a path repeats once the queue is drained. Unscripted paths answer 404.
type Client struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     []string

	// OnGet, if set, runs before each reply.
	OnGet func(path string)
}

// New creates a Client with no scripted paths.
func New() *Client {
	return &Client{responses: make(map[string][]Response)}
}

// On queues responses for path.
func (c *Client) On(path string, rs ...Response) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[path] = append(c.responses[path], rs...)
	return c
}

// OnBody queues a successful reply with body.
func (c *Client) OnBody(path, body string) *Client {
	return c.On(path, Response{Body: body})
}

// OnNotFound queues a 404 for path.
func (c *Client) OnNotFound(path string) *Client {
	return c.On(path, Response{Err: &hledger.NotFoundError{URL: path}})
}

// Calls returns the requested paths in order.
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Get implements hledger.Client.
func (c *Client) Get(ctx context.Context, _ model.Profile, path string) (io.ReadCloser, error) {
	if c.OnGet != nil {
		c.OnGet(path)
	}

	c.mu.Lock()
	c.calls = append(c.calls, path)
	queue := c.responses[path]
	var r Response
	switch len(queue) {
	case 0:
		r = Response{Err: &hledger.NotFoundError{URL: path}}
	case 1:
		r = queue[0]
	default:
		r = queue[0]
		c.responses[path] = queue[1:]
	}
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return io.NopCloser(strings.NewReader(r.Body)), nil
}

var _ hledger.Client = (*Client)(nil)
