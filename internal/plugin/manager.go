package plugin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/trimsave/internal/save"
)

// Manager loads plugin scripts and tracks their hosts.
type Manager struct {
	mu sync.RWMutex

	hooks *save.Manager
	opts  []HostOption

	plugins   map[string]*Host
	loadOrder []string
}

// NewManager creates a manager whose plugins register hooks on hooks.
// opts are applied to every Host it creates.
func NewManager(hooks *save.Manager, opts ...HostOption) *Manager {
	return &Manager{
		hooks:   hooks,
		opts:    opts,
		plugins: make(map[string]*Host),
	}
}

// Load loads the script at path.
// If a plugin with the same name is loaded, returns ErrAlreadyLoaded.
func (m *Manager) Load(path string) (*Host, error) {
	host, err := NewHost(path, m.hooks, m.opts...)
	if err != nil {
		return nil, err
	}
	name := host.Name()

	m.mu.RLock()
	_, exists := m.plugins[name]
	m.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("plugin %q: %w", name, ErrAlreadyLoaded)
	}

	if err := host.Load(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	// Another goroutine might have loaded it meanwhile.
	if _, exists := m.plugins[name]; exists {
		m.mu.Unlock()
		_ = host.Unload()
		return nil, fmt.Errorf("plugin %q: %w", name, ErrAlreadyLoaded)
	}
	m.plugins[name] = host
	m.loadOrder = append(m.loadOrder, name)
	m.mu.Unlock()

	return host, nil
}

// LoadDir loads every script Discover finds in dir. A failing script
// does not stop the others; the failures are joined.
func (m *Manager) LoadDir(dir string) error {
	paths, err := Discover(dir)
	if err != nil {
		return err
	}

	var loadErrors []error
	for _, path := range paths {
		if _, err := m.Load(path); err != nil {
			loadErrors = append(loadErrors, err)
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("failed to load %d plugins: %w", len(loadErrors), errors.Join(loadErrors...))
	}
	return nil
}

// Unload unloads a plugin by name, removing its hooks.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	host, exists := m.plugins[name]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("plugin %q: %w", name, ErrPluginNotFound)
	}
	delete(m.plugins, name)
	m.removeFromLoadOrder(name)
	m.mu.Unlock()

	if err := host.Unload(); err != nil {
		return fmt.Errorf("failed to unload plugin %q: %w", name, err)
	}
	return nil
}

// UnloadAll unloads all plugins in reverse load order.
func (m *Manager) UnloadAll() error {
	m.mu.RLock()
	names := make([]string, len(m.loadOrder))
	for i, name := range m.loadOrder {
		names[len(m.loadOrder)-1-i] = name
	}
	m.mu.RUnlock()

	var unloadErrors []error
	for _, name := range names {
		if err := m.Unload(name); err != nil {
			unloadErrors = append(unloadErrors, err)
		}
	}
	return errors.Join(unloadErrors...)
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Host, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	host, exists := m.plugins[name]
	return host, exists
}

// List returns the loaded plugins in load order.
func (m *Manager) List() []*Host {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hosts := make([]*Host, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		hosts = append(hosts, m.plugins[name])
	}
	return hosts
}

// Count returns the number of loaded plugins.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plugins)
}

func (m *Manager) removeFromLoadOrder(name string) {
	for i, n := range m.loadOrder {
		if n == name {
			m.loadOrder = append(m.loadOrder[:i], m.loadOrder[i+1:]...)
			return
		}
	}
}
