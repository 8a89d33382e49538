package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/relaycore/relay/notification"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
	if !cfg.Dispatch.PanicTrace {
		t.Error("Dispatch.PanicTrace = false, want true")
	}
	if cfg.Script.Enabled {
		t.Error("Script.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")
	doc := `
[logging]
level = "debug"
format = "console"

[dispatch]
source = "editor"
panic_trace = false

[script]
enabled = true
dir = "lua"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", cfg.Logging)
	}
	if cfg.Dispatch.Source != "editor" || cfg.Dispatch.PanicTrace {
		t.Errorf("Dispatch = %+v, want editor/false", cfg.Dispatch)
	}
	if !cfg.Script.Enabled || cfg.Script.Dir != "lua" {
		t.Errorf("Script = %+v, want enabled/lua", cfg.Script)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() of missing file error = %v, want nil", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialOverridesKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want default json", cfg.Logging.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"bad level", "[logging]\nlevel = \"verbose\"\n", ErrInvalidLevel},
		{"bad format", "[logging]\nformat = \"xml\"\n", ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "relay.toml")
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if cfg != Default() {
				t.Error("invalid file must fall back to defaults")
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")
	if err := os.WriteFile(path, []byte("[logging\nlevel"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed TOML must fail")
	}
}

// memoryNotifier records sent notifications for watcher tests.
type memoryNotifier struct {
	mu    sync.Mutex
	sent  []*notification.Notification
	sendC chan struct{}
}

func newMemoryNotifier() *memoryNotifier {
	return &memoryNotifier{sendC: make(chan struct{}, 16)}
}

func (n *memoryNotifier) Send(_ context.Context, name string, opts ...notification.Option) error {
	n.mu.Lock()
	n.sent = append(n.sent, notification.New(name, opts...))
	n.mu.Unlock()
	n.sendC <- struct{}{}
	return nil
}

func (n *memoryNotifier) last() *notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return nil
	}
	return n.sent[len(n.sent)-1]
}

func TestWatcher_ReloadBroadcast(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := newMemoryNotifier()
	w, err := NewWatcher(path, n, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if got := w.Current().Logging.Level; got != "info" {
		t.Fatalf("initial level = %q, want info", got)
	}

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-n.sendC:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config change broadcast")
	}

	note := n.last()
	if note.Name() != ChangedNotification {
		t.Errorf("notification name = %q, want %q", note.Name(), ChangedNotification)
	}
	cfg, ok := note.Body().(Config)
	if !ok {
		t.Fatalf("body = %T, want Config", note.Body())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("reloaded level = %q, want debug", cfg.Logging.Level)
	}
	if got := w.Current().Logging.Level; got != "debug" {
		t.Errorf("Current() level = %q, want debug", got)
	}
}

func TestWatcher_InvalidReloadKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := newMemoryNotifier()
	w, err := NewWatcher(path, n, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"nonsense\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the debounced reload time to run; no broadcast must arrive.
	select {
	case <-n.sendC:
		t.Fatal("invalid config must not be broadcast")
	case <-time.After(500 * time.Millisecond):
	}

	if got := w.Current().Logging.Level; got != "warn" {
		t.Errorf("Current() level = %q, want warn after failed reload", got)
	}
}

func TestWatcher_Close(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.toml")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("second Close() = %v, want ErrWatcherClosed", err)
	}
}
