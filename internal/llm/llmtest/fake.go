// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/brand-content-engine/internal/llm"
)

// Response is one scripted reply.
type Response struct {
	Text string
	Err  error
}

// Call records one request made to the fake.
type Call struct {
	Method   string
	Prompt   string
	Tier     llm.ModelTier
	HasImage bool
}

// Client replays scripted responses in order. When the script is exhausted
// the Default response is returned. Rules registered with On take precedence
// when their substring appears in the prompt.
type Client struct {
	mu      sync.Mutex
	script  []Response
	rules   []rule
	Default Response
	calls   []Call
}

type rule struct {
	contains string
	resp     Response
}

// New returns a fake that replays the given responses.
func New(responses ...Response) *Client {
	return &Client{script: responses}
}

// On registers a response for any prompt containing substr.
func (c *Client) On(substr string, resp Response) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rule{contains: substr, resp: resp})
	return c
}

// Calls returns a copy of the recorded calls.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallCount returns the number of calls made.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *Client) next(method, prompt string, tier llm.ModelTier, image bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Method: method, Prompt: prompt, Tier: tier, HasImage: image})
	for _, r := range c.rules {
		if strings.Contains(prompt, r.contains) {
			return r.resp.Text, r.resp.Err
		}
	}
	if len(c.script) > 0 {
		resp := c.script[0]
		c.script = c.script[1:]
		return resp.Text, resp.Err
	}
	return c.Default.Text, c.Default.Err
}

func (c *Client) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next("content", prompt, tier, false)
}

func (c *Client) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	text, err := c.next("json", prompt, tier, false)
	return llm.CleanJSONBlock(text), err
}

func (c *Client) GenerateJSONWithImage(_ context.Context, prompt string, _ []byte, _ string, tier llm.ModelTier) (string, error) {
	text, err := c.next("image", prompt, tier, true)
	return llm.CleanJSONBlock(text), err
}

func (c *Client) Close() error { return nil }

var _ llm.Client = (*Client)(nil)
