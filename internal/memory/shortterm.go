package memory

import (
	"fmt"
	"sync"

	"github.com/nexithium/nexithium/internal/schema"
)

// DefaultWindowSize is the number of user/assistant pairs ShortTermMemory keeps.
const DefaultWindowSize = 10

// ShortTermMemory is an in-process history bounded to 2×windowSize turns.
type ShortTermMemory struct {
	mu     sync.Mutex
	window *Window
}

var _ schema.Memory = (*ShortTermMemory)(nil)

// NewShortTermMemory creates an empty memory. windowSize <= 0 selects
// DefaultWindowSize.
func NewShortTermMemory(windowSize int) *ShortTermMemory {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &ShortTermMemory{window: NewWindow(windowSize * 2)}
}

func (m *ShortTermMemory) Add(role schema.Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.window.Append(schema.Turn{Role: role, Content: content})
	return nil
}

func (m *ShortTermMemory) Get() []schema.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.window.Turns()
}

func (m *ShortTermMemory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window.Reset(nil)
	return nil
}

// Bound is the maximum number of turns retained.
func (m *ShortTermMemory) Bound() int {
	return m.window.Bound()
}
