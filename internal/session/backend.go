package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/innkeep/innkeep/internal/config"
)

// DefaultPath is where FileBackend keeps the session when no path is given.
const DefaultPath = "~/.config/innkeep/session.toml"

// ErrCorrupt is returned by Load when persisted state cannot be decoded.
var ErrCorrupt = errors.New("session: corrupt state")

// State is the persisted form of a session.
type State struct {
	Token    string `toml:"token"`
	Username string `toml:"username,omitempty"`
	UserID   string `toml:"userId,omitempty"`
}

// Backend persists session state.
type Backend interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// FileBackend stores the session as a TOML file readable only by its owner.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for path, or DefaultPath when path is empty.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		path = DefaultPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	return &FileBackend{path: resolved}, nil
}

// Path returns the resolved file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the file. A missing file is the anonymous state.
func (b *FileBackend) Load() (State, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read session: %w", err)
	}
	var st State
	if err := toml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, b.path, err)
	}
	return st, nil
}

// Save writes st through a temp file renamed into place.
func (b *FileBackend) Save(st State) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("create temp session: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the file. Clearing an absent file is not an error.
func (b *FileBackend) Clear() error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryBackend keeps state in memory. Two Stores opened on the same
// MemoryBackend behave like a process restart against the same file.
type MemoryBackend struct {
	mu    sync.Mutex
	state State
}

// NewMemoryBackend returns a backend preloaded with st.
func NewMemoryBackend(st State) *MemoryBackend {
	return &MemoryBackend{state: st}
}

func (m *MemoryBackend) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryBackend) Save(st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	return nil
}

func (m *MemoryBackend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	return nil
}
