package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
cache_url: https://cache.example
store_dir: /nix/store
nix_state_dir: /nix/var/nix
state_dir: /var/lib/nixless-agent
temp_download_dir: /var/lib/nixless-agent/tmp
narinfo_cache_dir: /var/lib/nixless-agent/narinfo
tracker_path: /usr/libexec/nixless-agent-tracker
agent_user: nixless-agent
max_system_history_count: 5
`

func TestLoad_ParsesAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := config.NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://cache.example", cfg.CacheURL)
	assert.EqualValues(t, 5, cfg.MaxSystemHistoryCount)
	assert.EqualValues(t, 5, cfg.MaxParallelNarDownloads)
}

func TestLoad_RejectsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_url: https://cache.example\n"), 0o644))

	_, err := config.NewLoader().Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
