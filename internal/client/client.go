// Package client bridges editor changes to the tokenization worker.
//
// Tokenize calls are debounced; only the parameters of the last call within
// the delay are dispatched. Every dispatch carries a new sequence number and
// any event whose number is not the latest is dropped, so a slow earlier job
// can never overwrite the result of a newer one.
package client

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/logger"
	"github.com/zhubert/tokenlens/internal/worker"
)

// DefaultDelay is the debounce delay between the last Tokenize call and the
// dispatch.
const DefaultDelay = 150 * time.Millisecond

// Dispatcher is the worker side of the client. *worker.Worker implements it.
type Dispatcher interface {
	Submit(req worker.Request) error
	Events() <-chan worker.Event
	Close()
}

// Options are per-call tokenization options.
type Options struct {
	IsChatMode   bool
	ChatMessages []encoder.Message
}

// State is a snapshot of the client's reactive state.
type State struct {
	Tokens     []int
	TokenTexts []string
	Loading    bool
	Err        error
	Progress   *worker.Progress

	// Describes the result currently held in Tokens.
	Seq        uint64
	Model      string
	Encoding   string
	IsChatMode bool
	Elapsed    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDelay overrides the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// Client owns exactly one dispatcher and releases it on Close.
type Client struct {
	d     Dispatcher
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	state   State
	timer   *time.Timer
	gen     uint64 // bumped by every Tokenize call
	pending bool   // a debounced call has not been dispatched yet
	seq     uint64 // last dispatched sequence number
	closed  bool

	updates   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a client over d and starts consuming its events.
func New(d Dispatcher, opts ...Option) *Client {
	c := &Client{
		d:       d,
		delay:   DefaultDelay,
		log:     logger.WithComponent("Client"),
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.listen()
	return c
}

// Tokenize schedules a tokenization of text for model. Loading is set at once
// and any previous error and progress are cleared.
func (c *Client) Tokenize(text, model string, opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.state.Loading = true
	c.state.Err = nil
	c.state.Progress = nil

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	c.pending = true
	gen := c.gen
	req := worker.Request{
		Text:         text,
		Model:        model,
		IsChatMode:   opts.IsChatMode,
		ChatMessages: opts.ChatMessages,
	}
	c.timer = time.AfterFunc(c.delay, func() { c.dispatch(gen, req) })
	c.notify()
}

func (c *Client) dispatch(gen uint64, req worker.Request) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.seq++
	req.Seq = c.seq
	c.mu.Unlock()

	c.log.Debug("dispatching", "seq", req.Seq, "model", req.Model, "chars", len(req.Text))
	if err := c.d.Submit(req); err != nil {
		c.mu.Lock()
		if !c.closed && req.Seq == c.seq && !c.pending {
			c.state.Loading = false
			c.state.Progress = nil
			c.state.Err = err
			c.notify()
		}
		c.mu.Unlock()
		c.log.Warn("dispatch failed", "seq", req.Seq, "error", err)
	}
}

func (c *Client) listen() {
	defer close(c.done)
	for ev := range c.d.Events() {
		c.apply(ev)
	}
}

func (c *Client) apply(ev worker.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case ev.Progress != nil:
		if ev.Progress.Seq != c.seq || !c.state.Loading {
			return
		}
		p := *ev.Progress
		c.state.Progress = &p

	case ev.Result != nil:
		res := ev.Result
		if res.Seq != c.seq {
			c.log.Debug("discarding stale result", "seq", res.Seq, "latest", c.seq)
			return
		}
		// a newer call still waiting on the debounce keeps the loading flag
		c.state.Loading = c.pending
		c.state.Progress = nil
		c.state.Seq = res.Seq
		c.state.Model = res.Model
		c.state.Encoding = res.Encoding
		c.state.IsChatMode = res.IsChatMode
		c.state.Elapsed = res.Elapsed
		if res.Err != nil {
			c.state.Err = res.Err
			c.state.Tokens = nil
			c.state.TokenTexts = nil
		} else {
			c.state.Err = nil
			c.state.Tokens = res.Tokens
			c.state.TokenTexts = res.TokenTexts
		}

	default:
		return
	}
	c.notify()
}

// notify must be called with mu held.
func (c *Client) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// State returns a snapshot of the current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Updates signals that State changed. Several changes may be coalesced into
// one signal. The channel is closed by Close.
func (c *Client) Updates() <-chan struct{} {
	return c.updates
}

// Close cancels any pending call and shuts down the dispatcher, discarding
// in-flight work.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.state.Loading = false
		c.state.Progress = nil
		if c.timer != nil {
			c.timer.Stop()
		}
		c.mu.Unlock()

		c.d.Close()
		<-c.done

		c.mu.Lock()
		close(c.updates)
		c.mu.Unlock()
	})
}
