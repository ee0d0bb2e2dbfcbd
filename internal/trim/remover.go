package trim

import (
	"github.com/dshills/trimsave/internal/save"
)

// Name is the hook name the Remover registers under.
const Name = "whitespace-remover"

// DefaultPriority places the Remover after system hooks and before plugins.
const DefaultPriority = 500

// Logger is the logging interface the Remover writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Remover is the pre-save hook that trims documents.
type Remover struct {
	settings BoolSource
	logger   Logger
	priority int
}

// RemoverOption configures a Remover.
type RemoverOption func(*Remover)

// WithLogger sets the Remover's logger.
func WithLogger(l Logger) RemoverOption {
	return func(r *Remover) {
		r.logger = l
	}
}

// WithPriority overrides DefaultPriority.
func WithPriority(p int) RemoverOption {
	return func(r *Remover) {
		r.priority = p
	}
}

// NewRemover creates a Remover reading its preferences from settings.
func NewRemover(settings BoolSource, opts ...RemoverOption) *Remover {
	r := &Remover{
		settings: settings,
		priority: DefaultPriority,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements save.Hook.
func (r *Remover) Name() string { return Name }

// Priority implements save.Hook.
func (r *Remover) Priority() int { return r.priority }

// Activate registers the Remover with hooks.
func (r *Remover) Activate(hooks *save.Manager) {
	hooks.Register(r)
}

// Deactivate removes the Remover from hooks.
func (r *Remover) Deactivate(hooks *save.Manager) {
	hooks.Unregister(Name)
}

// PreSave implements save.PreSaveHook. It never returns an error.
func (r *Remover) PreSave(doc save.Document) error {
	prefs := LoadPreferences(r.settings)
	res := OnBeforeSave(doc.Engine(), prefs)

	if r.logger == nil {
		return nil
	}
	switch {
	case res.SkippedReadOnly:
		r.logger.Debug("skipping read-only document %s", doc.Path())
	case res.Err != nil:
		r.logger.Warn("trimming %s stopped: %v", doc.Path(), res.Err)
	case res.Changed():
		r.logger.Debug("trimmed %s: %d lines, %d bytes (%d from trailing blank lines)",
			doc.Path(), res.LinesTrimmed, res.BytesRemoved, res.BlankLineBytesRemoved)
	}
	return nil
}

var _ save.PreSaveHook = (*Remover)(nil)
