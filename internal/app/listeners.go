package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tokenlens/internal/client"
)

// ClientUpdateMsg is sent when the tokenizer client's state changed.
type ClientUpdateMsg struct {
	client *client.Client
}

// FileChangedMsg is sent when a watched file changed on disk.
type FileChangedMsg struct {
	Path string
}

// listenForClient creates a command that waits for the next client state
// change. It returns nil once the client is closed, ending the listen loop.
func (m *Model) listenForClient() tea.Cmd {
	c := m.client
	if c == nil {
		return nil
	}
	ch := c.Updates()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ClientUpdateMsg{client: c}
	}
}

// listenForFileChanges creates a command that waits for the watched file to
// change. A closed watcher ends the loop.
func (m *Model) listenForFileChanges() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	ch := w.Changes()
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return FileChangedMsg{Path: path}
	}
}
