package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/trimsave/internal/config/layer"
	"github.com/dshills/trimsave/internal/config/loader"
	"github.com/dshills/trimsave/internal/config/notify"
	"github.com/dshills/trimsave/internal/config/watcher"
)

// File and layer names.
const (
	SettingsFile        = "settings.toml"
	ProjectSettingsFile = ".trimsave.toml"
	EnvPrefix           = "TRIMSAVE_"

	layerDefaults = "defaults"
	layerUser     = "user"
	layerProject  = "project"
	layerEnv      = "environment"
)

// Config provides unified access to the settings layers.
// It manages loading, persistence, live reloading and change notification.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	watcher  *watcher.Watcher
	notifier *notify.Notifier

	userConfigDir string
	projectDir    string
	envPrefix     string

	enableWatcher bool
	onError       func(error)
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithProjectDir sets the directory searched for .trimsave.toml.
// An empty dir disables the project layer.
func WithProjectDir(dir string) Option {
	return func(c *Config) {
		c.projectDir = dir
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithErrorHandler sets a callback for errors hit during live reload.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onError = fn
	}
}

// New creates a new Config instance with the given options.
func New(opts ...Option) *Config {
	c := &Config{
		layers:        layer.NewManager(),
		notifier:      notify.New(),
		envPrefix:     EnvPrefix,
		enableWatcher: true,
		projectDir:    ".",
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = DefaultUserConfigDir()
	}

	return c
}

// Load loads configuration from all sources and starts the watcher.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()

	c.layers.AddLayer(layer.NewLayer(layerDefaults, layer.SourceBuiltin, defaultConfig()))

	if err := c.loadFileLayer(layerUser, layer.SourceUser, c.UserSettingsPath()); err != nil {
		c.mu.Unlock()
		return err
	}

	if c.projectDir != "" {
		if err := c.loadFileLayer(layerProject, layer.SourceProject, c.ProjectSettingsPath()); err != nil {
			c.mu.Unlock()
			return err
		}
	}

	if err := c.loadEnvironment(); err != nil {
		c.mu.Unlock()
		return err
	}

	enable := c.enableWatcher && c.watcher == nil
	c.mu.Unlock()

	// Watcher callbacks acquire c.mu
	if enable {
		return c.startWatcher()
	}
	return nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(c.reportError))
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	w.OnChange(c.handleFileChange)

	paths := []string{c.UserSettingsPath()}
	if c.projectDir != "" {
		paths = append(paths, c.ProjectSettingsPath())
	}
	for _, p := range paths {
		// A missing directory only means there is nothing to reload yet.
		if err := w.Watch(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.reportError(fmt.Errorf("watching %s: %w", p, err))
		}
	}

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	w.Start()
	return nil
}

// Close shuts down the configuration system.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Stop()
	}
	c.notifier.Close()
}

// UserConfigDir returns the user configuration directory.
func (c *Config) UserConfigDir() string {
	return c.userConfigDir
}

// UserSettingsPath returns the path of the user settings file.
func (c *Config) UserSettingsPath() string {
	return filepath.Join(c.userConfigDir, SettingsFile)
}

// ProjectSettingsPath returns the path of the project settings file.
func (c *Config) ProjectSettingsPath() string {
	return filepath.Join(c.projectDir, ProjectSettingsFile)
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, _, ok := c.layers.Get(path)
	return val, ok
}

// Source returns the name of the layer providing path, or "".
func (c *Config) Source(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, l, ok := c.layers.Get(path)
	if !ok {
		return ""
	}
	return l.Name
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Set sets a value in the user layer and writes settings.toml. The file
// is written first; when that fails the running configuration is left
// unchanged.
func (c *Config) Set(path string, value any) error {
	if err := checkType(path, value); err != nil {
		return err
	}

	c.mu.Lock()

	user := c.layers.GetLayer(layerUser)
	data := map[string]any{}
	if user != nil && user.Data != nil {
		data = layer.Clone(user.Data)
	}

	if !layer.SetByPath(data, path, value) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if err := loader.SaveTOML(c.UserSettingsPath(), data); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("persisting %s: %w", path, err)
	}

	oldValue, _, _ := c.layers.Get(path)
	if user == nil {
		c.layers.AddLayer(layer.NewLayer(layerUser, layer.SourceUser, data).WithPath(c.UserSettingsPath()))
	} else {
		user.Data = data
	}
	c.layers.Invalidate()

	newValue, _, _ := c.layers.Get(path)
	w := c.watcher
	c.mu.Unlock()

	// The directory may have just been created.
	if w != nil {
		_ = w.Watch(c.UserSettingsPath())
	}

	c.notifier.NotifySet(path, oldValue, newValue, layerUser)
	return nil
}

// SetBool sets a boolean value. See Set.
func (c *Config) SetBool(path string, value bool) error {
	return c.Set(path, value)
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes to a specific path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}

// Layers returns the loaded layer names from lowest to highest priority.
func (c *Config) Layers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Names()
}

// loadFileLayer loads a TOML file into a layer; a missing file is skipped.
func (c *Config) loadFileLayer(name string, source layer.Source, path string) error {
	data, err := loader.NewTOMLLoader(path).Load()
	if err != nil {
		return err
	}
	if data == nil {
		c.layers.RemoveLayer(name)
		return nil
	}

	c.layers.AddLayer(layer.NewLayer(name, source, data).WithPath(path))
	return nil
}

// loadEnvironment loads configuration from environment variables.
func (c *Config) loadEnvironment() error {
	envLoader := loader.NewEnvLoader(c.envPrefix)
	envLoader.AddMapping(c.envPrefix+"LOG_LEVEL", "logging.level")

	data, err := envLoader.Load()
	if err != nil {
		return err
	}

	if len(data) > 0 {
		c.layers.AddLayer(layer.NewLayer(layerEnv, layer.SourceEnv, data))
	} else {
		c.layers.RemoveLayer(layerEnv)
	}
	return nil
}

// handleFileChange reloads the layer backed by the changed file.
func (c *Config) handleFileChange(event watcher.Event) {
	var (
		name   string
		source layer.Source
	)

	switch filepath.Clean(event.Path) {
	case absPath(c.UserSettingsPath()):
		name, source = layerUser, layer.SourceUser
	case absPath(c.ProjectSettingsPath()):
		if c.projectDir == "" {
			return
		}
		name, source = layerProject, layer.SourceProject
	default:
		return
	}

	c.mu.Lock()
	var err error
	if event.Op == watcher.OpRemove {
		c.layers.RemoveLayer(name)
	} else {
		err = c.loadFileLayer(name, source, event.Path)
	}
	c.mu.Unlock()

	if err != nil {
		// Keep the previous layer when the new file does not parse.
		c.reportError(err)
		return
	}
	c.notifier.NotifyReload(event.Path)
}

func (c *Config) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

// DefaultUserConfigDir returns the default user configuration directory.
func DefaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trimsave")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "trimsave")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"trim": map[string]any{
			"remove-trailing-whitespace":  true,
			"remove-trailing-blank-lines": true,
			"preserve-cursor":             true,
		},
		"logging": map[string]any{
			"level": "info",
		},
		"plugins": map[string]any{
			"enabled": true,
		},
	}
}

// checkType rejects values of the wrong type for known settings.
func checkType(path string, value any) error {
	var expected string
	switch {
	case strings.HasPrefix(path, "trim."), path == "plugins.enabled":
		expected = "bool"
		if _, ok := value.(bool); ok {
			return nil
		}
	case path == "logging.level":
		expected = "string"
		if _, ok := value.(string); ok {
			return nil
		}
	default:
		return nil
	}
	return &TypeError{Path: path, Expected: expected, Actual: typeName(value)}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
