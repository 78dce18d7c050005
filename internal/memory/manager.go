package memory

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/nexithium/nexithium/internal/schema"
)

// Directory hands out the memory belonging to a user id.
type Directory interface {
	ForUser(userID string) (schema.Memory, error)
}

// Manager maps each user id to exactly one PersistentMemory for the life of
// the process. Entries are created on first use and never evicted.
type Manager struct {
	dir   string
	bound int
	cache sync.Map // userID → *PersistentMemory
}

var _ Directory = (*Manager)(nil)

// NewManager creates a Manager storing history files under dir.
func NewManager(dir string, bound int) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	return &Manager{dir: dir, bound: bound}, nil
}

// Get returns the cached memory for userID, loading it from disk on first use.
func (m *Manager) Get(userID string) (*PersistentMemory, error) {
	if v, ok := m.cache.Load(userID); ok {
		return v.(*PersistentMemory), nil
	}

	mem, err := NewPersistentMemory(m.dir, userID, m.bound)
	if err != nil {
		return nil, err
	}

	actual, _ := m.cache.LoadOrStore(userID, mem)
	return actual.(*PersistentMemory), nil
}

func (m *Manager) ForUser(userID string) (schema.Memory, error) {
	mem, err := m.Get(userID)
	if err != nil {
		return nil, err
	}
	return mem, nil
}

// Users lists the ids with a cached memory, sorted.
func (m *Manager) Users() []string {
	var out []string
	m.cache.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	sort.Strings(out)
	return out
}

// EphemeralManager is the in-process counterpart of Manager, handing out one
// ShortTermMemory per user id.
type EphemeralManager struct {
	windowSize int
	cache      sync.Map // userID → *ShortTermMemory
}

var _ Directory = (*EphemeralManager)(nil)

func NewEphemeralManager(windowSize int) *EphemeralManager {
	return &EphemeralManager{windowSize: windowSize}
}

func (m *EphemeralManager) ForUser(userID string) (schema.Memory, error) {
	v, _ := m.cache.LoadOrStore(userID, NewShortTermMemory(m.windowSize))
	return v.(*ShortTermMemory), nil
}
