package plugin

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/trimsave/internal/plugin/lua"
	"github.com/dshills/trimsave/internal/save"
)

// DefaultHookPriority is the priority of a Lua hook registered without
// one. It sits in the plugin range, below the built-in remover.
const DefaultHookPriority = 300

// ConfigProvider is the settings access plugins get through ks.config.
type ConfigProvider interface {
	Get(path string) (any, bool)
	Set(path string, value any) error
}

// Logger receives plugin output and lifecycle messages.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// State is the lifecycle state of a Host.
type State int

const (
	StateUnloaded State = iota
	StateLoaded         // script ran and its hooks are registered
	StateError          // script failed; no hooks remain
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Host manages a single plugin script's Lua state and the hooks it
// registered.
type Host struct {
	mu sync.Mutex

	name string
	path string

	hooks  *save.Manager
	config ConfigProvider
	logger Logger

	executionTimeout time.Duration

	state       *plua.State
	pluginState State
	err         error

	// Hook names this plugin registered, keyed by the name the script
	// used. Guarded by trackMu so scripts can register while Load holds mu.
	trackMu    sync.Mutex
	registered map[string]string
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithConfig exposes settings to the script through ks.config.
func WithConfig(cfg ConfigProvider) HostOption {
	return func(h *Host) {
		h.config = cfg
	}
}

// WithLogger sets the logger that receives print output and errors.
func WithLogger(l Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// WithExecutionTimeout bounds each script run and hook call.
func WithExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.executionTimeout = d
	}
}

// NewHost creates a host for the script at path. Hooks the script
// registers go to hooks.
func NewHost(path string, hooks *save.Manager, opts ...HostOption) (*Host, error) {
	if filepath.Ext(path) != ".lua" {
		return nil, fmt.Errorf("%w: %s is not a .lua file", ErrInvalidPlugin, path)
	}

	h := &Host{
		name:             strings.TrimSuffix(filepath.Base(path), ".lua"),
		path:             path,
		hooks:            hooks,
		logger:           nopLogger{},
		executionTimeout: plua.DefaultExecutionTimeout,
		pluginState:      StateUnloaded,
		registered:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Name returns the plugin name, the script file name without .lua.
func (h *Host) Name() string {
	return h.name
}

// Path returns the script path.
func (h *Host) Path() string {
	return h.path
}

// State returns the current plugin state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pluginState
}

// Error returns the error from the last failed Load.
func (h *Host) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Load creates the Lua state, installs the ks API and runs the script.
func (h *Host) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState == StateLoaded {
		return ErrAlreadyLoaded
	}

	state := plua.NewState(
		plua.WithExecutionTimeout(h.executionTimeout),
		plua.WithPrinter(func(msg string) {
			h.logger.Info("plugin %s: %s", h.name, msg)
		}),
	)

	err := state.With(func(L *lua.LState) error {
		registerAPI(L, h, state)
		return nil
	})
	if err == nil {
		h.state = state
		err = state.DoFile(h.path)
	}
	if err != nil {
		h.unregisterAll()
		state.Close()
		h.state = nil
		h.pluginState = StateError
		h.err = &ScriptError{Plugin: h.name, Op: "load", Err: err}
		return h.err
	}

	h.pluginState = StateLoaded
	h.err = nil
	return nil
}

// Unload removes every hook the plugin registered and closes its state.
func (h *Host) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState == StateUnloaded {
		return nil
	}

	h.unregisterAll()
	if h.state != nil {
		h.state.Close()
		h.state = nil
	}
	h.pluginState = StateUnloaded
	h.err = nil
	return nil
}

// Reload unloads and reloads the plugin.
func (h *Host) Reload() error {
	if err := h.Unload(); err != nil {
		return err
	}
	return h.Load()
}

// Hooks returns the names the script registered hooks under, sorted.
func (h *Host) Hooks() []string {
	h.trackMu.Lock()
	defer h.trackMu.Unlock()

	names := make([]string, 0, len(h.registered))
	for name := range h.registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hookName qualifies a script's hook name so plugins cannot replace
// each other's hooks or the built-in ones.
func (h *Host) hookName(name string) string {
	return h.name + ":" + name
}

// addHook registers fn as a pre-save hook. Registering an existing
// name replaces the previous hook.
func (h *Host) addHook(state *plua.State, name string, fn *lua.LFunction, priority int) {
	qualified := h.hookName(name)

	hook := save.NewPreSaveFunc(qualified, priority, func(doc save.Document) error {
		err := state.With(func(L *lua.LState) error {
			L.Push(fn)
			L.Push(newDocumentTable(L, doc))
			return L.PCall(1, 0, nil)
		})
		if err != nil {
			return &ScriptError{Plugin: h.name, Op: "presave " + name, Err: err}
		}
		return nil
	})

	h.trackMu.Lock()
	h.registered[name] = qualified
	h.trackMu.Unlock()

	h.hooks.Register(hook)
	h.logger.Debug("plugin %s: registered pre-save hook %q (priority %d)", h.name, name, priority)
}

// removeHook unregisters a hook by the name the script used.
func (h *Host) removeHook(name string) bool {
	h.trackMu.Lock()
	qualified, ok := h.registered[name]
	delete(h.registered, name)
	h.trackMu.Unlock()

	if !ok {
		return false
	}
	return h.hooks.Unregister(qualified)
}

func (h *Host) unregisterAll() {
	h.trackMu.Lock()
	names := make([]string, 0, len(h.registered))
	for _, qualified := range h.registered {
		names = append(names, qualified)
	}
	h.registered = make(map[string]string)
	h.trackMu.Unlock()

	for _, name := range names {
		h.hooks.Unregister(name)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
