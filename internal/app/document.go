package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/trimsave/internal/engine"
	"github.com/dshills/trimsave/internal/save"
)

// defaultFileMode is used for files that do not exist yet.
const defaultFileMode fs.FileMode = 0o644

// Document is a file loaded into an engine. It implements save.Document.
type Document struct {
	id     uuid.UUID
	path   string
	name   string
	engine *engine.Engine
	mode   fs.FileMode

	// saved is the text last read from or written to disk.
	saved string

	modified atomic.Bool
}

var _ save.Document = (*Document)(nil)

// NewDocument creates a document for path holding content. opts are
// passed to the engine, for example engine.WithCaret.
func NewDocument(path, content string, mode fs.FileMode, opts ...engine.Option) *Document {
	engineOpts := append([]engine.Option{engine.WithContent(content)}, opts...)
	return newDocument(path, engine.New(engineOpts...), mode)
}

func newDocument(path string, eng *engine.Engine, mode fs.FileMode) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	if mode == 0 {
		mode = defaultFileMode
	}

	return &Document{
		id:     uuid.New(),
		path:   path,
		name:   name,
		engine: eng,
		mode:   mode,
		saved:  eng.Text(),
	}
}

// OpenDocument reads path into a new document. opts are passed to the
// engine.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &SaveError{Path: path, Op: "open", Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &SaveError{Path: abs, Op: "stat", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &SaveError{Path: abs, Op: "open", Err: ErrNotRegularFile}
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, &SaveError{Path: abs, Op: "open", Err: err}
	}
	defer f.Close()

	// A file without the owner write bit opens read-only, so hooks
	// leave it alone.
	if info.Mode().Perm()&0o200 == 0 {
		opts = append([]engine.Option{engine.WithReadOnly()}, opts...)
	}

	eng, err := engine.NewFromReader(f, opts...)
	if err != nil {
		return nil, &SaveError{Path: abs, Op: "read", Err: err}
	}
	return newDocument(abs, eng, info.Mode().Perm()), nil
}

// ID returns the document's unique ID.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Path implements save.Document.
func (d *Document) Path() string {
	return d.path
}

// Name returns the display name.
func (d *Document) Name() string {
	return d.name
}

// Engine implements save.Document.
func (d *Document) Engine() *engine.Engine {
	return d.engine
}

// Mode returns the permission bits used when writing.
func (d *Document) Mode() fs.FileMode {
	return d.mode
}

// Content returns the full document content.
func (d *Document) Content() string {
	return d.engine.Text()
}

// IsModified returns true if the text differs from what is on disk.
func (d *Document) IsModified() bool {
	return d.modified.Load()
}

// SetModified sets the modified flag.
func (d *Document) SetModified(modified bool) {
	d.modified.Store(modified)
}

// RunPreSave runs hooks on the document and reports whether the text
// now differs from the saved text. Hook failures are returned but the
// document stays usable.
func (d *Document) RunPreSave(hooks *save.Manager) (changed bool, err error) {
	if hooks != nil {
		err = hooks.Run(d)
	}
	changed = d.engine.Text() != d.saved
	if changed {
		d.SetModified(true)
	}
	return changed, err
}

// Save runs the pre-save hooks and then writes the document. A hook
// failure never prevents the write. The result joins any *save.HookError
// values with a *SaveError from the write.
func (d *Document) Save(hooks *save.Manager) error {
	_, hookErr := d.RunPreSave(hooks)
	return errors.Join(hookErr, d.Write())
}

// Write writes the current text to the document's path atomically,
// through a temporary file in the same directory, keeping the file mode.
func (d *Document) Write() error {
	if d.path == "" {
		return &SaveError{Op: "write", Err: ErrNoFilePath}
	}

	content := d.engine.Text()
	if err := writeFileAtomic(d.path, []byte(content), d.mode); err != nil {
		return err
	}

	d.saved = content
	d.SetModified(false)
	return nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+strings.TrimPrefix(base, ".")+".*.tmp")
	if err != nil {
		return &SaveError{Path: path, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()

	cleanup := func(err error, op string) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &SaveError{Path: path, Op: op, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err, "write")
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "write")
	}
	if err := tmp.Chmod(mode); err != nil && !errors.Is(err, fs.ErrPermission) {
		return cleanup(err, "write")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &SaveError{Path: path, Op: "write", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &SaveError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
