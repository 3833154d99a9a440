package trackerwatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/activation/trackerwatch"
	"github.com/stretchr/testify/require"
)

func TestWatch_WakesUpOnTrackerFileWrite(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := trackerwatch.Start(ctx, dir)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre_switch"), nil, 0o600))

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tracker file event")
	}
}
