package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"

	"github.com/zhubert/tokenlens/internal/client"
	"github.com/zhubert/tokenlens/internal/clipboard"
	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/fileinput"
	"github.com/zhubert/tokenlens/internal/models"
	"github.com/zhubert/tokenlens/internal/notification"
	"github.com/zhubert/tokenlens/internal/tokens"
	"github.com/zhubert/tokenlens/internal/ui"
)

// retokenize sends the current editor text to the client unless the same
// input was already requested.
func (m *Model) retokenize() {
	if m.client == nil {
		m.refreshStats()
		return
	}

	req := request{
		text:     m.editor.Value(),
		model:    m.config.GetModel(),
		chatMode: m.chatMode,
		valid:    true,
	}
	var opts client.Options
	if m.chatMode {
		msgs := encoder.ParseTranscript(req.text)
		req.messages = len(msgs)
		opts = client.Options{IsChatMode: true, ChatMessages: msgs}
	}
	if req == m.requested {
		return
	}
	m.requested = req

	m.client.Tokenize(req.text, req.model, opts)
	m.tokens.SetLoading(true)
	m.wasLoading = true
	m.refreshStats()
}

// forceRetokenize re-requests the current input even if it is unchanged.
func (m *Model) forceRetokenize() {
	m.requested = request{}
	m.retokenize()
}

// applyClientState copies the client's latest state into the ui. A new
// result replaces the token items wholesale.
func (m *Model) applyClientState() tea.Cmd {
	if m.client == nil {
		return nil
	}
	st := m.client.State()

	if st.Seq != 0 && st.Seq != m.appliedSeq {
		m.appliedSeq = st.Seq
		m.tokens.SetItems(tokens.BuildItems(st.Tokens, st.TokenTexts))
		m.log.Debug("applied result", "seq", st.Seq, "tokens", len(st.Tokens), "elapsed", st.Elapsed)
	}
	m.tokens.SetLoading(st.Loading)

	var cmd tea.Cmd
	if m.wasLoading && !st.Loading && st.Err == nil &&
		notification.ShouldNotify(m.config.GetNotificationsEnabled(), st.Elapsed) {
		count, encoding, elapsed := len(st.Tokens), st.Encoding, st.Elapsed
		cmd = func() tea.Msg {
			_ = notification.TokenizationFinished(count, encoding, elapsed)
			return nil
		}
	}
	m.wasLoading = st.Loading

	m.refreshStats()
	return cmd
}

// refreshStats rebuilds the stats panel from the client state and the last
// requested input.
func (m *Model) refreshStats() {
	s := ui.Stats{
		Chars:      utf8.RuneCountInString(m.requested.text),
		Bytes:      len(m.requested.text),
		Messages:   m.requested.messages,
		ChatMode:   m.chatMode,
		Resolution: models.Resolve(m.config.GetModel()),
		Backend:    m.config.GetBackend(),
	}

	if m.client == nil {
		if m.clientErr != nil {
			s.Err = m.clientErr.Error()
		}
		m.stats.SetStats(s)
		return
	}

	st := m.client.State()
	s.Tokens = len(st.Tokens)
	s.Elapsed = st.Elapsed
	s.Loading = st.Loading
	if st.Progress != nil {
		s.Chunk = st.Progress.ChunkIndex
		s.TotalChunks = st.Progress.TotalChunks
		s.Percentage = st.Progress.Percentage
	}
	if st.Err != nil {
		s.Err = st.Err.Error()
	}
	m.stats.SetStats(s)
}

// loadFile reads path into the editor. On failure nothing changes.
func (m *Model) loadFile(path string) error {
	f, err := fileinput.Read(path, m.config.MaxFileBytes)
	if err != nil {
		m.log.Warn("file load failed", "path", path, "error", err)
		return err
	}

	m.editor.LoadFile(filepath.Base(path), f.Text)
	m.header.SetSource(filepath.Base(path))
	m.log.Info("loaded file", "path", path, "bytes", f.Size)

	if m.watch {
		m.startWatching(path)
	}
	m.retokenize()
	return nil
}

// openFile loads path and reports the outcome in the footer.
func (m *Model) openFile(path string) tea.Cmd {
	if err := m.loadFile(path); err != nil {
		return m.ShowFlashError(err.Error())
	}
	f := m.editor.FileName()
	flash := m.ShowFlashSuccess(fmt.Sprintf("Loaded %s (%s)", f, humanize.Bytes(uint64(len(m.editor.Value())))))
	return tea.Batch(flash, m.listenForFileChanges())
}

// reloadFile re-reads a watched file. A failed read keeps the old contents.
func (m *Model) reloadFile(path string) tea.Cmd {
	if m.watcher == nil || !m.editor.HasFile() {
		return nil
	}
	f, err := fileinput.Read(path, m.config.MaxFileBytes)
	if err != nil {
		m.log.Warn("file reload failed", "path", path, "error", err)
		return tea.Batch(m.ShowFlashWarning(err.Error()), m.listenForFileChanges())
	}
	m.editor.LoadFile(filepath.Base(path), f.Text)
	m.retokenize()
	return tea.Batch(m.ShowFlashInfo("Reloaded "+filepath.Base(path)), m.listenForFileChanges())
}

// clearFile returns the editor to typed text.
func (m *Model) clearFile() {
	if !m.editor.HasFile() {
		return
	}
	m.stopWatching()
	m.editor.ClearFile()
	m.header.SetSource("")
	m.retokenize()
}

func (m *Model) startWatching(path string) {
	m.stopWatching()
	w, err := fileinput.Watch(context.Background(), path)
	if err != nil {
		m.log.Warn("watch failed", "path", path, "error", err)
		return
	}
	m.watcher = w
}

func (m *Model) stopWatching() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

// copyTokens copies the current ids, or texts, to the clipboard.
func (m *Model) copyTokens(texts bool) tea.Cmd {
	if m.client == nil {
		return nil
	}
	st := m.client.State()
	if len(st.Tokens) == 0 {
		return m.ShowFlashWarning("No tokens to copy")
	}

	var (
		n   int
		err error
	)
	what := "token ids"
	if texts {
		if len(st.TokenTexts) == 0 {
			return m.ShowFlashWarning("This encoding has no per-token text")
		}
		what = "token texts"
		n, err = clipboard.CopyTexts(st.TokenTexts)
	} else {
		n, err = clipboard.CopyIDs(st.Tokens)
	}
	if err != nil {
		return m.ShowFlashError(err.Error())
	}
	return m.ShowFlashSuccess(fmt.Sprintf("Copied %s %s", humanize.Comma(int64(n)), what))
}

// ClipboardErrorMsg reports that the system clipboard rejected a copy.
type ClipboardErrorMsg struct {
	Err error
}

// copySelection copies the ids, or texts, of the selected tokens. The text
// goes out both as an OSC 52 sequence and to the system clipboard, and the
// selection flashes.
func (m *Model) copySelection(texts bool) tea.Cmd {
	items := m.tokens.SelectedItems()
	if len(items) == 0 {
		return nil
	}

	var text, what string
	if texts {
		if !items[0].HasText() {
			return m.ShowFlashWarning("This encoding has no per-token text")
		}
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.Text
		}
		text, what = clipboard.FormatTexts(parts), "token texts"
	} else {
		ids := make([]int, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		text, what = clipboard.FormatIDs(ids), "token ids"
	}
	if len(items) == 1 {
		what = strings.TrimSuffix(what, "s")
	}

	m.tokens.StartSelectionFlash()
	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg {
			if err := clipboard.WriteText(text); err != nil {
				return ClipboardErrorMsg{Err: err}
			}
			return nil
		},
		ui.SelectionFlashTick(),
		m.ShowFlashSuccess(fmt.Sprintf("Copied %s selected %s", humanize.Comma(int64(len(items))), what)),
	)
}
