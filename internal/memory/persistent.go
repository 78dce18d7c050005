package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/nexithium/nexithium/internal/schema"
)

// DefaultPersistentBound is the number of turns kept in a user's history file.
const DefaultPersistentBound = 50

// PersistentMemory is a user's history stored as a JSON array of
// {"role","content"} objects in <dir>/<user>.json. Every Add re-reads the
// file and rewrites it in full while holding <file>.lock, so writers for the
// same user never interleave, in this process or another.
type PersistentMemory struct {
	mu     sync.Mutex
	path   string
	lock   *flock.Flock
	window *Window
}

var _ schema.Memory = (*PersistentMemory)(nil)

// NewPersistentMemory opens the history of userID under dir, creating dir if
// needed. A missing file is an empty history. bound <= 0 selects
// DefaultPersistentBound.
func NewPersistentMemory(dir, userID string, bound int) (*PersistentMemory, error) {
	if bound <= 0 {
		bound = DefaultPersistentBound
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Op: "load", Path: dir, Err: err}
	}

	path := filepath.Join(dir, historyFilename(userID))
	m := &PersistentMemory{
		path:   path,
		lock:   flock.New(path + ".lock"),
		window: NewWindow(bound),
	}

	turns, err := m.readFile()
	if err != nil {
		return nil, err
	}
	m.window.Reset(turns)

	return m, nil
}

func (m *PersistentMemory) Path() string { return m.path }
func (m *PersistentMemory) Bound() int   { return m.window.Bound() }

// Add appends one turn and persists the bounded history before returning.
// On failure the in-memory history is left unchanged.
func (m *PersistentMemory) Add(role schema.Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.withFileLock(func() error {
		// Pick up turns written by other processes since we last looked.
		turns, err := m.readFile()
		if err != nil {
			return err
		}

		next := NewWindow(m.window.Bound())
		next.Reset(turns)
		next.Append(schema.Turn{Role: role, Content: content})

		if err := m.writeFile(next.Turns()); err != nil {
			return err
		}
		m.window = next
		return nil
	})
}

func (m *PersistentMemory) Get() []schema.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.window.Turns()
}

// Clear empties the history and writes an empty array to disk.
func (m *PersistentMemory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.withFileLock(func() error {
		if err := m.writeFile([]schema.Turn{}); err != nil {
			return err
		}
		m.window.Reset(nil)
		return nil
	})
}

func (m *PersistentMemory) withFileLock(fn func() error) error {
	if err := m.lock.Lock(); err != nil {
		return &PersistenceError{Op: "lock", Path: m.lock.Path(), Err: err}
	}
	defer m.lock.Unlock()

	return fn()
}

func (m *PersistentMemory) readFile() ([]schema.Turn, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: m.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var turns []schema.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, &PersistenceError{Op: "load", Path: m.path, Err: err}
	}
	return turns, nil
}

// writeFile replaces the history file atomically via a temp file and rename.
func (m *PersistentMemory) writeFile(turns []schema.Turn) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(turns); err != nil {
		return &PersistenceError{Op: "save", Path: m.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), filepath.Base(m.path)+".tmp-*")
	if err != nil {
		return &PersistenceError{Op: "save", Path: m.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: m.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: m.path, Err: err}
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: m.path, Err: err}
	}
	return nil
}

// historyFilename converts a user id to its history file name.
// Unsafe bytes are percent-encoded so distinct ids never share a file:
// "telegram:42" becomes "telegram%3A42.json".
func historyFilename(userID string) string {
	switch userID {
	case "":
		return "%.json"
	case ".", "..":
		return strings.Repeat("%2E", len(userID)) + ".json"
	}

	const unsafe = `<>:"/\|?*% `
	var b strings.Builder
	for i := 0; i < len(userID); i++ {
		c := userID[i]
		if c < 0x20 || c == 0x7f || strings.IndexByte(unsafe, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String() + ".json"
}
