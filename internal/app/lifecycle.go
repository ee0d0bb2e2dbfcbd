package app

import (
	"errors"
	"time"

	"github.com/dshills/trimsave/internal/config/notify"
	"github.com/dshills/trimsave/internal/engine"
	"github.com/dshills/trimsave/internal/save"
	"github.com/dshills/trimsave/internal/settings"
)

// SaveFile opens path, runs the pre-save hooks with the caret at caret
// and writes the file back if its content changed. Hook failures are
// logged and never stop the write.
func (app *Application) SaveFile(path string, caret engine.Point) (changed bool, err error) {
	return app.processFile(path, caret, true)
}

// CheckFile runs the pre-save hooks on path without writing and reports
// whether saving would change the file.
func (app *Application) CheckFile(path string, caret engine.Point) (changed bool, err error) {
	return app.processFile(path, caret, false)
}

func (app *Application) processFile(path string, caret engine.Point, write bool) (bool, error) {
	if app.closed.Load() {
		return false, ErrClosed
	}
	start := time.Now()

	doc, err := OpenDocument(path, engine.WithCaret(caret))
	if err != nil {
		app.metrics.RecordFailure()
		return false, err
	}
	log := app.logger.WithField("file", doc.Name())

	before := doc.Engine().Len()
	changed, hookErr := doc.RunPreSave(app.hooks)
	if hookErr != nil {
		failed := hookErrors(hookErr)
		app.metrics.RecordHookErrors(len(failed))
		for _, e := range failed {
			log.Warn("%v", e)
		}
	}

	if changed && write {
		if err := doc.Write(); err != nil {
			app.metrics.RecordFailure()
			return false, err
		}
		log.Info("saved %s", doc.Path())
	} else if changed {
		log.Info("would change %s", doc.Path())
	} else {
		log.Debug("unchanged %s", doc.Path())
	}

	app.metrics.RecordFile(changed, doc.Engine().Len()-before, time.Since(start))
	return changed, nil
}

// hookErrors splits a joined hook error into its parts.
func hookErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	var hookErr *save.HookError
	if errors.As(err, &hookErr) {
		return []error{hookErr}
	}
	return []error{err}
}

// OpenSettings runs the settings panel on the terminal until the user
// closes it. The panel follows changes made to the settings files while
// it is open.
func (app *Application) OpenSettings() error {
	if app.closed.Load() {
		return ErrClosed
	}
	subscribe := func(onChange func()) func() {
		sub := app.config.Subscribe(func(_ notify.Change) {
			onChange()
		})
		return sub.Unsubscribe
	}
	return settings.Open(app.config, subscribe)
}
