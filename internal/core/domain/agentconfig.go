package domain

import "time"

// AgentConfig holds every operational parameter the agent needs, as supplied
// by the external CLI/env configuration layer (see internal/adapters/config).
type AgentConfig struct {
	// CacheURL is the base URL of the binary cache (e.g. "https://cache.example").
	CacheURL string `yaml:"cache_url"`

	// CacheAuthToken is sent as a bearer token on cache requests, if non-empty.
	CacheAuthToken string `yaml:"cache_auth_token"`

	// CachePublicKeys are additional named Ed25519 keys ("name:base64") merged
	// into the keychain alongside the preloaded production cache key.
	CachePublicKeys []string `yaml:"cache_public_keys"`

	// UpdatePublicKeys authenticate POST /new-configuration and
	// POST /rollback-configuration requests (the update keychain; consumed by
	// the out-of-scope HTTP surface, carried here since it shares a keychain shape).
	UpdatePublicKeys []string `yaml:"update_public_keys"`

	// StoreDir is the content-addressed store directory, e.g. "/nix/store".
	StoreDir string `yaml:"store_dir"`

	// NixStateDir is the directory containing "nix/profiles".
	NixStateDir string `yaml:"nix_state_dir"`

	// StateDir holds the persisted agent-state document and tracker files.
	StateDir string `yaml:"state_dir"`

	// TempDownloadDir is scratch space for in-flight downloads.
	TempDownloadDir string `yaml:"temp_download_dir"`

	// NarinfoCacheDir caches narinfo responses, one file per hash.
	NarinfoCacheDir string `yaml:"narinfo_cache_dir"`

	// MaxSystemHistoryCount bounds the number of non-tombstone configurations retained.
	MaxSystemHistoryCount uint32 `yaml:"max_system_history_count"`

	// MaxParallelNarDownloads bounds concurrent per-package fetches within a single download_packages call.
	MaxParallelNarDownloads uint32 `yaml:"max_parallel_nar_downloads"`

	// TrackerPath is the path to the external activation-outcome tracker binary.
	TrackerPath string `yaml:"tracker_path"`

	// AgentUser is the unprivileged user name passed to the tracker.
	AgentUser string `yaml:"agent_user"`

	// HTTPListenAddr is consumed by the out-of-scope HTTP surface; carried
	// here so one config document configures the whole process.
	HTTPListenAddr string `yaml:"http_listen_addr"`

	// JobPollInterval is how often the activation driver polls job/unit state.
	JobPollInterval time.Duration `yaml:"job_poll_interval"`
}

// DefaultMaxParallelNarDownloads is used when the configuration omits the field.
const DefaultMaxParallelNarDownloads = 5

// DefaultJobPollInterval is the activation driver's default poll cadence.
const DefaultJobPollInterval = 100 * time.Millisecond

// Validate checks the configuration fields the core requires to be non-empty
// and sane, independent of anything the filesystem/network could tell us.
func (c *AgentConfig) Validate() error {
	if c.CacheURL == "" {
		return errWithField(ErrConfigInvalid, "cache_url")
	}
	if c.StoreDir == "" {
		return errWithField(ErrConfigInvalid, "store_dir")
	}
	if c.NixStateDir == "" {
		return errWithField(ErrConfigInvalid, "nix_state_dir")
	}
	if c.StateDir == "" {
		return errWithField(ErrConfigInvalid, "state_dir")
	}
	if c.TempDownloadDir == "" {
		return errWithField(ErrConfigInvalid, "temp_download_dir")
	}
	if c.NarinfoCacheDir == "" {
		return errWithField(ErrConfigInvalid, "narinfo_cache_dir")
	}
	if c.TrackerPath == "" {
		return errWithField(ErrConfigInvalid, "tracker_path")
	}
	if c.AgentUser == "" {
		return errWithField(ErrConfigInvalid, "agent_user")
	}
	return nil
}

// ApplyDefaults fills zero-valued optional fields with their documented defaults.
func (c *AgentConfig) ApplyDefaults() {
	if c.MaxParallelNarDownloads == 0 {
		c.MaxParallelNarDownloads = DefaultMaxParallelNarDownloads
	}
	if c.JobPollInterval == 0 {
		c.JobPollInterval = DefaultJobPollInterval
	}
}
