package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innkeep/innkeep/pkg/domain"
)

type failingBackend struct {
	MemoryBackend
	saveErr  error
	clearErr error
}

func (f *failingBackend) Save(st State) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryBackend.Save(st)
}

func (f *failingBackend) Clear() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryBackend.Clear()
}

func TestOpen_Anonymous(t *testing.T) {
	s, err := Open(NewMemoryBackend(State{}))
	require.NoError(t, err)

	assert.Empty(t, s.Credential())
	assert.False(t, s.Authenticated())
	_, ok := s.Identity()
	assert.False(t, ok)
}

func TestOpen_DropsIdentityWithoutToken(t *testing.T) {
	s, err := Open(NewMemoryBackend(State{Username: "stale", UserID: "user-1"}))
	require.NoError(t, err)

	id, ok := s.Identity()
	assert.False(t, ok)
	assert.True(t, id.IsZero())
}

func TestOpen_BackendError(t *testing.T) {
	_, err := Open(&errBackend{})
	assert.ErrorIs(t, err, ErrCorrupt)
}

type errBackend struct{ MemoryBackend }

func (*errBackend) Load() (State, error) { return State{}, ErrCorrupt }

func TestStore_SetAndReload(t *testing.T) {
	backend := NewMemoryBackend(State{})
	s, err := Open(backend)
	require.NoError(t, err)

	require.NoError(t, s.Set("mock-token", domain.Identity{Username: "test", UserID: "user-123"}))
	assert.Equal(t, "mock-token", s.Credential())

	reloaded, err := Open(backend)
	require.NoError(t, err)
	assert.Equal(t, "mock-token", reloaded.Credential())
	id, ok := reloaded.Identity()
	require.True(t, ok)
	assert.Equal(t, domain.Identity{Username: "test", UserID: "user-123"}, id)
}

func TestStore_SetRejectsEmptyToken(t *testing.T) {
	s, _ := Open(NewMemoryBackend(State{}))
	require.Error(t, s.Set("", domain.Identity{Username: "x"}))
	assert.False(t, s.Authenticated())
}

func TestStore_SetPersistFailureKeepsPreviousState(t *testing.T) {
	b := &failingBackend{}
	s, err := Open(b)
	require.NoError(t, err)
	require.NoError(t, s.Set("old", domain.Identity{Username: "a"}))

	b.saveErr = errors.New("disk full")
	err = s.Set("new", domain.Identity{Username: "b"})
	require.Error(t, err)
	assert.Equal(t, "old", s.Credential())
}

func TestStore_SetUserID(t *testing.T) {
	backend := NewMemoryBackend(State{})
	s, _ := Open(backend)

	assert.ErrorIs(t, s.SetUserID("user-1"), ErrNotAuthenticated)

	require.NoError(t, s.Set("tok", domain.Identity{Username: "test"}))
	require.NoError(t, s.SetUserID("user-1"))

	id, _ := s.Identity()
	assert.Equal(t, "user-1", id.UserID)
	st, _ := backend.Load()
	assert.Equal(t, "user-1", st.UserID)
}

func TestStore_SetUserIDIf(t *testing.T) {
	backend := NewMemoryBackend(State{})
	s, _ := Open(backend)

	assert.ErrorIs(t, s.SetUserIDIf("tok", "user-1"), ErrNotAuthenticated)

	require.NoError(t, s.Set("tok", domain.Identity{Username: "test"}))
	assert.ErrorIs(t, s.SetUserIDIf("other", "user-1"), ErrSessionChanged)
	id, _ := s.Identity()
	assert.Empty(t, id.UserID, "a stale token must not write")

	require.NoError(t, s.SetUserIDIf("tok", "user-1"))
	id, _ = s.Identity()
	assert.Equal(t, "user-1", id.UserID)
	st, _ := backend.Load()
	assert.Equal(t, "user-1", st.UserID)
}

func TestStore_Clear(t *testing.T) {
	backend := NewMemoryBackend(State{Token: "tok", Username: "test", UserID: "u"})
	s, _ := Open(backend)
	require.True(t, s.Authenticated())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Credential())
	_, ok := s.Identity()
	assert.False(t, ok)

	reloaded, _ := Open(backend)
	assert.False(t, reloaded.Authenticated())
}

func TestStore_ClearBackendFailureStillClearsMemory(t *testing.T) {
	b := &failingBackend{}
	s, _ := Open(b)
	require.NoError(t, s.Set("tok", domain.Identity{Username: "a"}))

	b.clearErr = errors.New("read-only fs")
	require.Error(t, s.Clear())
	assert.False(t, s.Authenticated())
}

func TestStore_ConcurrentReadersSeeConsistentPairs(t *testing.T) {
	s, _ := Open(NewMemoryBackend(State{}))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				id, ok := s.Identity()
				if ok {
					// Each token is written with a matching username.
					assert.NotEmpty(t, id.Username)
				}
				_ = s.Credential()
			}
		}()
	}
	for i := range 200 {
		if i%2 == 0 {
			_ = s.Set("tok", domain.Identity{Username: "user"})
		} else {
			_ = s.Clear()
		}
	}
	close(stop)
	wg.Wait()
}
