package app

import (
	"os"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestListenForClient_NilClient(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	m.client.Close()
	m.client = nil

	if cmd := m.listenForClient(); cmd != nil {
		t.Error("expected nil cmd without a client")
	}
}

func TestListenForClient_ReceivesUpdate(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	cmd := m.listenForClient()
	if cmd == nil {
		t.Fatal("expected a listen cmd")
	}

	typeText(m, "x")

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		upd, ok := msg.(ClientUpdateMsg)
		if !ok {
			t.Fatalf("expected ClientUpdateMsg, got %T", msg)
		}
		if upd.client != m.client {
			t.Error("update should carry the current client")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client update")
	}
}

func TestListenForClient_ClosedClient(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	cmd := m.listenForClient()
	m.client.Close()

	// drain a pending signal, if any, then expect the closed result
	for range 2 {
		if msg := cmd(); msg == nil {
			return
		}
	}
	t.Error("expected nil msg once the client is closed")
}

func TestListenForFileChanges_NoWatcher(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)

	if cmd := m.listenForFileChanges(); cmd != nil {
		t.Error("expected nil cmd without a watcher")
	}
}

func TestListenForFileChanges_ReceivesChange(t *testing.T) {
	m, _ := testModel(t, testConfig(t), WithWatch(true))
	path := writeFile(t, "watched.txt", "a")
	if err := m.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	cmd := m.listenForFileChanges()
	if cmd == nil {
		t.Fatal("expected a listen cmd")
	}

	if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		fc, ok := msg.(FileChangedMsg)
		if !ok {
			t.Fatalf("expected FileChangedMsg, got %T", msg)
		}
		if fc.Path != m.watcher.Path() {
			t.Errorf("expected %q, got %q", m.watcher.Path(), fc.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file change")
	}
}

func TestListenForFileChanges_StoppedWatcher(t *testing.T) {
	m, _ := testModel(t, testConfig(t), WithWatch(true))
	if err := m.LoadFile(writeFile(t, "w.txt", "a")); err != nil {
		t.Fatal(err)
	}
	cmd := m.listenForFileChanges()
	m.stopWatching()

	if msg := cmd(); msg != nil {
		t.Errorf("expected nil msg from a stopped watcher, got %T", msg)
	}
}
