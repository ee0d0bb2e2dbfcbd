package app

import (
	"context"

	"github.com/dshills/trimsave/internal/config"
	"github.com/dshills/trimsave/internal/config/notify"
	"github.com/dshills/trimsave/internal/plugin"
	"github.com/dshills/trimsave/internal/save"
	"github.com/dshills/trimsave/internal/trim"
)

const (
	keyLogLevel       = "logging.level"
	keyPluginsEnabled = "plugins.enabled"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initLogger,
		b.initConfig,
		b.initHooks,
		b.initPlugins,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initLogger creates the logger. The level is refined once config loads.
func (b *bootstrapper) initLogger() error {
	cfg := DefaultLoggerConfig()
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}
	if b.opts.LogLevel != "" {
		cfg.Level = ParseLogLevel(b.opts.LogLevel)
	}
	b.app.logger = NewLogger(cfg)
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initConfig initializes the configuration system. Load errors are
// non-fatal: a broken settings file falls back to the defaults.
func (b *bootstrapper) initConfig() error {
	log := b.app.logger.WithComponent("config")

	configOpts := []config.Option{
		config.WithWatcher(b.opts.Watch),
		config.WithErrorHandler(func(err error) {
			log.Warn("reload failed: %v", err)
		}),
	}
	if b.opts.ConfigDir != "" {
		configOpts = append(configOpts, config.WithUserConfigDir(b.opts.ConfigDir))
	}
	if b.opts.ProjectDir != "" {
		configOpts = append(configOpts, config.WithProjectDir(b.opts.ProjectDir))
	}

	b.app.config = config.New(configOpts...)
	if err := b.app.config.Load(context.Background()); err != nil {
		log.Warn("using defaults: %v", err)
	}
	b.initOrder = append(b.initOrder, "config")

	if b.opts.LogLevel == "" {
		b.applyLogLevel()
		b.app.levelSub = b.app.config.SubscribePath(keyLogLevel, func(notify.Change) {
			b.applyLogLevel()
		})
	}
	log.Debug("user config dir %s", b.app.config.UserConfigDir())
	return nil
}

// applyLogLevel sets the logger level from the logging.level setting.
func (b *bootstrapper) applyLogLevel() {
	level, err := b.app.config.GetString(keyLogLevel)
	if err != nil {
		return
	}
	b.app.logger.SetLevel(ParseLogLevel(level))
}

// initHooks creates the hook manager and activates the remover.
func (b *bootstrapper) initHooks() error {
	b.app.hooks = save.NewManager()
	b.app.remover = trim.NewRemover(b.app.config,
		trim.WithLogger(b.app.logger.WithComponent("trim")))
	b.app.remover.Activate(b.app.hooks)
	b.initOrder = append(b.initOrder, "hooks")
	return nil
}

// initPlugins loads the user's Lua plugins. Script errors are logged
// and the remaining plugins still load.
func (b *bootstrapper) initPlugins() error {
	log := b.app.logger.WithComponent("plugin")

	b.app.plugins = plugin.NewManager(b.app.hooks,
		plugin.WithConfig(b.app.config),
		plugin.WithLogger(log),
	)
	b.initOrder = append(b.initOrder, "plugins")

	if b.opts.NoPlugins {
		log.Debug("plugins disabled by option")
		return nil
	}
	if enabled, err := b.app.config.GetBool(keyPluginsEnabled); err == nil && !enabled {
		log.Debug("plugins disabled by %s", keyPluginsEnabled)
		return nil
	}

	dir := plugin.DefaultPluginPath(b.app.config.UserConfigDir())
	if err := b.app.plugins.LoadDir(dir); err != nil {
		log.Warn("plugins in %s: %v", dir, err)
	}
	if n := b.app.plugins.Count(); n > 0 {
		log.Info("loaded %d plugin(s) from %s", n, dir)
	}
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "plugins":
		if b.app.plugins != nil {
			_ = b.app.plugins.UnloadAll()
			b.app.plugins = nil
		}
	case "hooks":
		if b.app.hooks != nil {
			b.app.hooks.Clear()
		}
		b.app.remover = nil
		b.app.hooks = nil
	case "config":
		if b.app.levelSub != nil {
			b.app.levelSub.Unsubscribe()
			b.app.levelSub = nil
		}
		if b.app.config != nil {
			b.app.config.Close()
			b.app.config = nil
		}
	case "logger":
		// The logger holds no resources.
	}
}
