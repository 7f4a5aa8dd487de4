package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pi22by7/semcore/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReportsFileModification(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	w, err := NewWatcher(config.Default(), 20*time.Millisecond)
	require.NoError(t, err)

	received := make(chan ChangeEvent, 4)
	w.OnChange = func(e ChangeEvent) { received <- e }

	require.NoError(t, w.Start(dir))
	defer func() { require.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(target, []byte("package main\n\nfunc main() {}\n"), 0o644))

	select {
	case event := <-received:
		assert.Equal(t, target, event.Path)
		assert.Equal(t, "go", event.Language)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestChangeEvent_JSONRoundTrips(t *testing.T) {
	event := ChangeEvent{Type: EventModify, Path: "a.go", Language: "go"}
	encoded, err := event.JSON()
	require.NoError(t, err)
	assert.Contains(t, encoded, `"type":"modify"`)
}
