package save

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Manager manages pre-save hooks with priority-based ordering.
type Manager struct {
	mu    sync.RWMutex
	hooks []PreSaveHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{
		hooks: make([]PreSaveHook, 0),
	}
}

// Register adds a pre-save hook.
// A hook registered under an existing name replaces it.
func (m *Manager) Register(h PreSaveHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.hooks {
		if existing.Name() == h.Name() {
			m.hooks[i] = h
			m.sortHooks()
			return
		}
	}

	m.hooks = append(m.hooks, h)
	m.sortHooks()
}

// Unregister removes a hook by name.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, h := range m.hooks {
		if h.Name() == name {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Run runs every hook once in priority order.
// All hooks run even if some fail; the failures are joined into the
// returned error, each wrapped in a *HookError.
func (m *Manager) Run(doc Document) error {
	m.mu.RLock()
	hooks := make([]PreSaveHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.RUnlock()

	var errs []error
	for _, h := range hooks {
		if err := runHook(h, doc); err != nil {
			errs = append(errs, &HookError{Hook: h.Name(), Err: err})
		}
	}
	return errors.Join(errs...)
}

func runHook(h PreSaveHook, doc Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHookPanic, r)
		}
	}()
	return h.PreSave(doc)
}

// Has reports whether a hook with the given name is registered.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.hooks {
		if h.Name() == name {
			return true
		}
	}
	return false
}

// Count returns the number of registered hooks.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// Names returns the names of all hooks in run order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.hooks))
	for i, h := range m.hooks {
		names[i] = h.Name()
	}
	return names
}

// sortHooks sorts hooks by priority descending (higher first).
// Hooks with equal priority keep registration order.
func (m *Manager) sortHooks() {
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority() > m.hooks[j].Priority()
	})
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = m.hooks[:0]
}
