package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/heos-control/heos-go/pkg/heos"
)

// CacheVersion is the current version of the cache file format.
const CacheVersion = 1

// ErrPlayerNotFound indicates that no cached player matches.
var ErrPlayerNotFound = errors.New("player not in cache")

// ErrAmbiguousPlayer indicates that a name matches several cached players.
var ErrAmbiguousPlayer = errors.New("player name is ambiguous")

// PlayerCache is the last get_players result seen for one device.
type PlayerCache struct {
	// Version is the cache file format version.
	Version int `json:"version"`

	// SavedAt is when the cache was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Device is the host:port the players were read from.
	Device string `json:"device"`

	Players []heos.Player `json:"players"`
}

// Find returns the player whose name matches name, ignoring case and
// surrounding spaces.
func (c *PlayerCache) Find(name string) (heos.Player, error) {
	want := strings.TrimSpace(name)
	var found []heos.Player
	for _, p := range c.Players {
		if strings.EqualFold(strings.TrimSpace(p.Name), want) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return heos.Player{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	case 1:
		return found[0], nil
	}
	return heos.Player{}, fmt.Errorf("%w: %q matches %d players", ErrAmbiguousPlayer, name, len(found))
}

// FindPID returns the cached player with the given pid.
func (c *PlayerCache) FindPID(pid int64) (heos.Player, error) {
	for _, p := range c.Players {
		if p.PID == pid {
			return p, nil
		}
	}
	return heos.Player{}, fmt.Errorf("%w: pid %d", ErrPlayerNotFound, pid)
}

// PlayerCacheStore manages persistence of the player cache to a JSON file.
type PlayerCacheStore struct {
	mu   sync.Mutex
	path string
}

// NewPlayerCacheStore creates a store backed by path.
func NewPlayerCacheStore(path string) *PlayerCacheStore {
	return &PlayerCacheStore{path: path}
}

// Path returns the cache file path.
func (s *PlayerCacheStore) Path() string {
	return s.path
}

// Save persists the cache to disk.
func (s *PlayerCacheStore) Save(cache *PlayerCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	cache.Version = CacheVersion
	if cache.SavedAt.IsZero() {
		cache.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename; Load never sees a partial file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the cache from disk.
// Returns nil, nil if the file doesn't exist.
func (s *PlayerCacheStore) Load() (*PlayerCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cache := &PlayerCache{}
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("player cache %s: %w", s.path, err)
	}
	if cache.Version > CacheVersion {
		return nil, fmt.Errorf("player cache %s: unsupported version %d", s.path, cache.Version)
	}
	return cache, nil
}

// Clear removes the cache file.
func (s *PlayerCacheStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
