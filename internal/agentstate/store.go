// Package agentstate implements the persisted agent-state document: atomic
// load/save, history pruning, profile-link repair orchestration, and
// boot-time recovery (§4.9).
package agentstate

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StateStore = (*Store)(nil)

// Store persists the agent-state JSON document at <state_dir>/state,
// truncate-writing on every Save so the document on disk is always either
// the previous or the current state, never a partial write (§9 "every
// transition is followed by truncate-write... before any external
// side-effect is issued").
type Store struct {
	path string
}

// NewStore builds a Store rooted at the agent's state directory.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, domain.StateFileName)}
}

// Load reads the persisted document, returning (nil, nil) if it doesn't
// exist yet so the caller can build an initial state from host inspection.
func (s *Store) Load() (*domain.AgentState, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading agent state"), "path", s.path)
	}

	var state domain.AgentState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "decoding agent state"), "path", s.path)
	}

	return &state, nil
}

// Save truncate-writes state to disk via a temporary-file-then-rename swap,
// so a crash mid-write never leaves a half-written document in place.
func (s *Store) Save(state *domain.AgentState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "encoding agent state")
	}
	raw = append(raw, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "creating state directory"), "path", filepath.Dir(s.path))
	}

	tempPath := s.path + domain.TemporarySymlinkSuffix
	if err := os.WriteFile(tempPath, raw, domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "writing temporary agent state"), "path", tempPath)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "renaming agent state into place"), "path", s.path)
	}

	return nil
}
