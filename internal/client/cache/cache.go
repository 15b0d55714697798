package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"attn/internal/platform/clock"
)

// maxAge caps how long a cached session may be restored after its start.
const maxAge = 24 * time.Hour

var ErrNoEntry = errors.New("no cached session")

// Entry is the client's local memory of the running session, enough to
// render the active view before the server answers.
type Entry struct {
	SessionID        string    `json:"session_id"`
	StartedAt        time.Time `json:"started_at"`
	DistractionCount int       `json:"distraction_count"`
}

type Store interface {
	// Load returns ErrNoEntry when nothing usable is cached. Entries
	// older than 24 hours are discarded, never returned.
	Load() (Entry, error)
	Save(entry Entry) error
	Clear() error
}

type FileStore struct {
	path  string
	clock clock.Clock
}

func NewFileStore(stateDir string, clk clock.Clock) *FileStore {
	return &FileStore{path: filepath.Join(stateDir, "session-cache.json"), clock: clk}
}

func (s *FileStore) Load() (Entry, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, ErrNoEntry
		}
		return Entry{}, fmt.Errorf("read session cache: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode session cache: %w", err)
	}
	if entry.SessionID == "" {
		return Entry{}, ErrNoEntry
	}
	if s.clock.Now().Sub(entry.StartedAt) > maxAge {
		_ = s.Clear()
		return Entry{}, ErrNoEntry
	}
	return entry, nil
}

func (s *FileStore) Save(entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	payload, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session cache: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear session cache: %w", err)
	}
	return nil
}
