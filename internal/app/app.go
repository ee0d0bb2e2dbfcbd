// Package app provides the application structure for trimsave. It wires
// configuration, logging, the pre-save hook manager, the whitespace
// remover and the Lua plugins, and saves files through them.
package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/trimsave/internal/config"
	"github.com/dshills/trimsave/internal/config/notify"
	"github.com/dshills/trimsave/internal/plugin"
	"github.com/dshills/trimsave/internal/save"
	"github.com/dshills/trimsave/internal/trim"
)

// Application is the central coordinator for all trimsave components.
type Application struct {
	mu sync.Mutex

	config  *config.Config
	logger  *Logger
	hooks   *save.Manager
	remover *trim.Remover
	plugins *plugin.Manager
	metrics *Metrics

	levelSub *notify.Subscription

	closed atomic.Bool
	opts   Options
}

// Options configures the application.
type Options struct {
	// ConfigDir overrides the user configuration directory.
	ConfigDir string

	// ProjectDir is searched for .trimsave.toml. Empty means the
	// working directory.
	ProjectDir string

	// LogLevel overrides the logging.level setting when non-empty.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// NoPlugins skips loading Lua plugins.
	NoPlugins bool

	// Watch reloads settings files when they change on disk.
	Watch bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	b := newBootstrapper(app, opts)
	if err := b.bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// Close releases plugins, subscriptions and the config watcher.
// It is safe to call more than once.
func (app *Application) Close() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	var err error
	if app.plugins != nil {
		err = app.plugins.UnloadAll()
	}
	if app.remover != nil {
		app.remover.Deactivate(app.hooks)
	}
	if app.levelSub != nil {
		app.levelSub.Unsubscribe()
	}
	if app.config != nil {
		app.config.Close()
	}
	app.logger.Debug("application closed")
	return err
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Hooks returns the pre-save hook manager.
func (app *Application) Hooks() *save.Manager {
	return app.hooks
}

// Plugins returns the plugin manager (may be nil).
func (app *Application) Plugins() *plugin.Manager {
	return app.plugins
}

// Metrics returns the run counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
