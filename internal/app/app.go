// Package app is the root Bubble Tea model. It composes the ui components,
// owns the view-mode and focus state, and bridges editor changes to the
// tokenizer client.
package app

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tokenlens/internal/client"
	"github.com/zhubert/tokenlens/internal/config"
	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/fileinput"
	"github.com/zhubert/tokenlens/internal/layout"
	"github.com/zhubert/tokenlens/internal/logger"
	"github.com/zhubert/tokenlens/internal/models"
	"github.com/zhubert/tokenlens/internal/ui"
	"github.com/zhubert/tokenlens/internal/worker"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusEditor Focus = iota
	FocusTokens
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	switch f {
	case FocusEditor:
		return "Editor"
	case FocusTokens:
		return "Tokens"
	default:
		return "Unknown"
	}
}

// DispatcherFactory builds the worker a client talks to. It is called again
// whenever the backend or chat template changes.
type DispatcherFactory func(cfg *config.Config) (client.Dispatcher, error)

// NewWorker is the default DispatcherFactory: a worker goroutine over a
// fresh encoder cache for the configured backend.
func NewWorker(cfg *config.Config) (client.Dispatcher, error) {
	loader, err := encoder.LoaderFor(cfg.GetBackend())
	if err != nil {
		return nil, err
	}
	tmpl, err := encoder.ParseTemplate(cfg.GetChatTemplate())
	if err != nil {
		return nil, err
	}
	cache := encoder.NewCache(cfg.GetBackend(), loader)
	return worker.New(cache, worker.WithOptions(worker.Options{
		ChunkSize:    cfg.ChunkThreshold,
		ChatTemplate: tmpl,
	})), nil
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	version string
	log     *slog.Logger

	header *ui.Header
	footer *ui.Footer
	editor *ui.Editor
	tokens *ui.TokenView
	stats  *ui.StatsPanel
	modal  *ui.Modal

	width  int
	height int
	focus  Focus

	// View mode is owned here; each mode remembers its own scroll offset.
	viewMode ui.ViewMode
	offsets  map[ui.ViewMode]int
	chatMode bool

	newDispatcher DispatcherFactory
	client        *client.Client
	clientErr     error

	// What was last sent to the client, to skip redundant calls.
	requested request
	// Seq of the result currently shown in the token view.
	appliedSeq uint64
	wasLoading bool

	resizeGen uint64

	watch   bool
	watcher *fileinput.Watcher

	// Render isolation: a panel that panicked shows an error box until
	// ctrl+r clears its entry.
	renderErrs   map[string]string
	renderTokens func() string
}

type request struct {
	text     string
	model    string
	chatMode bool
	messages int
	valid    bool
}

// Option configures a Model.
type Option func(*Model)

// WithVersion sets the version shown in the help modal.
func WithVersion(v string) Option {
	return func(m *Model) { m.version = v }
}

// WithDispatcherFactory replaces the worker factory, for tests.
func WithDispatcherFactory(f DispatcherFactory) Option {
	return func(m *Model) { m.newDispatcher = f }
}

// WithWatch reloads a loaded file whenever it changes on disk.
func WithWatch(on bool) Option {
	return func(m *Model) { m.watch = on }
}

// New creates a new app model
func New(cfg *config.Config, opts ...Option) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:        cfg,
		log:           logger.WithComponent("App"),
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		editor:        ui.NewEditor(),
		tokens:        ui.NewTokenView(layout.Measure(layout.NewTerminalMeasurer())),
		stats:         ui.NewStatsPanel(),
		modal:         ui.NewModal(),
		focus:         FocusEditor,
		viewMode:      ui.ParseViewMode(cfg.GetView()),
		offsets:       make(map[ui.ViewMode]int),
		newDispatcher: NewWorker,
		renderErrs:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.renderTokens = m.tokens.View

	m.editor.SetFocused(true)
	m.tokens.SetMode(m.viewMode)
	m.header.SetViewMode(m.viewMode.String())
	m.header.SetModel(models.Resolve(cfg.GetModel()).Label())

	m.startClient()
	m.refreshStats()
	return m
}

// startClient creates the client and its worker. A factory failure leaves
// the model without a client and shows the error in the stats panel.
func (m *Model) startClient() {
	d, err := m.newDispatcher(m.config)
	if err != nil {
		m.log.Error("failed to start worker", "error", err)
		m.client = nil
		m.clientErr = err
		return
	}
	m.clientErr = nil
	m.client = client.New(d, client.WithDelay(m.config.Debounce))
	m.log.Debug("client started", "backend", m.config.GetBackend(), "template", m.config.GetChatTemplate())
}

// restartClient replaces the client after a backend or template change and
// re-requests the current input.
func (m *Model) restartClient() tea.Cmd {
	if m.client != nil {
		m.client.Close()
	}
	m.startClient()
	m.appliedSeq = 0
	m.requested = request{}
	m.retokenize()
	return m.listenForClient()
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	m.retokenize()
	return tea.Batch(m.listenForClient(), m.listenForFileChanges())
}

// Close releases the client, its worker and any file watcher.
func (m *Model) Close() {
	m.stopWatching()
	if m.client != nil {
		m.client.Close()
	}
}

// LoadFile loads path into the editor. It is used for --file before the
// program starts.
func (m *Model) LoadFile(path string) error {
	return m.loadFile(path)
}

// FocusedPanel returns which panel has focus
func (m *Model) FocusedPanel() Focus {
	return m.focus
}

// ViewMode returns the active token view mode
func (m *Model) ViewMode() ui.ViewMode {
	return m.viewMode
}

// resizeTickMsg fires after the resize debounce; only the latest gen counts.
type resizeTickMsg struct {
	gen uint64
}

func (m *Model) scheduleRelayout() tea.Cmd {
	m.resizeGen++
	gen := m.resizeGen
	return tea.Tick(m.config.ResizeDebounce, func(time.Time) tea.Msg {
		return resizeTickMsg{gen: gen}
	})
}
