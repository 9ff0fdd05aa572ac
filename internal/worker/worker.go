// Package worker runs tokenization off the UI goroutine.
//
// A Worker owns one goroutine and one encoder cache. Requests are handled in
// the order they were submitted; each produces zero or more Progress events
// followed by exactly one Result, all tagged with the request's Seq.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/errors"
	"github.com/zhubert/tokenlens/internal/logger"
)

// Request asks for one tokenization.
type Request struct {
	Seq          uint64
	Text         string
	Model        string
	IsChatMode   bool
	ChatMessages []encoder.Message
}

// Progress reports that ChunkIndex of TotalChunks chunks are encoded.
type Progress struct {
	Seq         uint64
	ChunkIndex  int
	TotalChunks int
	Percentage  float64
}

// Result is the terminal answer to a Request. When Err is set Tokens is empty.
// TokenTexts is either parallel to Tokens or empty.
type Result struct {
	Seq          uint64
	Tokens       []int
	TokenTexts   []string
	Count        int
	Model        string
	Encoding     string
	IsChatMode   bool
	ChatMessages []encoder.Message
	Err          error
	Elapsed      time.Duration
}

// Event carries either a Progress or a Result.
type Event struct {
	Progress *Progress
	Result   *Result
}

const (
	defaultQueueSize  = 16
	defaultEventsSize = 64
)

// Option configures a Worker.
type Option func(*Worker)

// WithOptions sets the tokenization options.
func WithOptions(opts Options) Option {
	return func(w *Worker) {
		w.opts = opts
	}
}

// WithQueueSize sets how many requests may wait before Submit blocks.
func WithQueueSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

// Worker processes requests sequentially on its own goroutine.
type Worker struct {
	id        string
	cache     *encoder.Cache
	opts      Options
	queueSize int
	log       *slog.Logger

	requests chan Request
	events   chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// New starts a worker that encodes with cache.
func New(cache *encoder.Cache, opts ...Option) *Worker {
	w := &Worker{
		id:        uuid.New().String()[:8],
		cache:     cache,
		opts:      DefaultOptions(),
		queueSize: defaultQueueSize,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.log = logger.WithComponent("Worker").With("worker", w.id)
	w.requests = make(chan Request, w.queueSize)
	w.events = make(chan Event, defaultEventsSize)
	w.ctx, w.cancel = context.WithCancel(context.Background())

	go w.run()
	w.log.Debug("worker started", "backend", cache.Backend(), "chunkSize", w.opts.ChunkSize)
	return w
}

// ID returns the short worker id used in logs.
func (w *Worker) ID() string {
	return w.id
}

// Submit queues a request. It fails once the worker is closed.
func (w *Worker) Submit(req Request) error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return errors.WorkerClosed()
	}

	select {
	case w.requests <- req:
		return nil
	case <-w.ctx.Done():
		return errors.WorkerClosed()
	}
}

// Events returns the event stream. It is closed after Close.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Close stops the worker, discarding queued and in-flight work. It is safe to
// call more than once.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	<-w.done
	w.log.Debug("worker stopped")
}

func (w *Worker) run() {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case <-w.ctx.Done():
			return
		case req := <-w.requests:
			w.handle(req)
		}
	}
}

func (w *Worker) handle(req Request) {
	log := w.log.With("seq", req.Seq, "model", req.Model)
	log.Debug("tokenizing", "chars", len(req.Text), "chat", req.IsChatMode, "messages", len(req.ChatMessages))

	res := Tokenize(w.ctx, w.cache, req, w.opts, func(p Progress) {
		// progress is informational; drop it rather than stall encoding
		select {
		case w.events <- Event{Progress: &p}:
		default:
		}
	})

	if w.ctx.Err() != nil {
		log.Debug("discarding result of cancelled request")
		return
	}
	if res.Err != nil {
		log.Warn("tokenization failed", "error", res.Err)
	} else {
		log.Debug("tokenized", "tokens", res.Count, "encoding", res.Encoding, "elapsed", res.Elapsed)
	}

	select {
	case w.events <- Event{Result: &res}:
	case <-w.ctx.Done():
	}
}
