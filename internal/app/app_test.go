package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/trimsave/internal/engine"
	"github.com/dshills/trimsave/internal/plugin"
	"github.com/dshills/trimsave/internal/trim"
)

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	if opts.ConfigDir == "" {
		opts.ConfigDir = t.TempDir()
	}
	if opts.ProjectDir == "" {
		opts.ProjectDir = t.TempDir()
	}
	opts.LogOutput = &logs

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, &logs
}

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestNewApplication(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	if app.Config() == nil {
		t.Error("expected config to be initialized")
	}
	if app.Logger() == nil {
		t.Error("expected logger to be initialized")
	}
	if app.Hooks() == nil || !app.Hooks().Has(trim.Name) {
		t.Error("expected the whitespace remover to be registered")
	}
	if app.Plugins() == nil {
		t.Error("expected plugin manager to be initialized")
	}
	if app.Metrics() == nil {
		t.Error("expected metrics to be initialized")
	}
}

func TestApplication_SaveFile(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	tests := []struct {
		name    string
		content string
		caret   engine.Point
		want    string
		changed bool
	}{
		{"trailing whitespace and blank lines", "a  \nb\t\n\n", engine.Point{}, "a\nb", true},
		{"caret keeps whitespace before it", "x   \n", engine.Point{Line: 0, Column: 2}, "x ", true},
		{"clean file", "a\nb", engine.Point{}, "a\nb", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, "f.txt", tt.content, 0o644)

			changed, err := app.SaveFile(path, tt.caret)
			if err != nil {
				t.Fatalf("SaveFile() error = %v", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if got := readTestFile(t, path); got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}

	snapshot := app.Metrics().Snapshot()
	if snapshot.Files != 3 || snapshot.Changed != 2 {
		t.Errorf("metrics = %+v", snapshot)
	}
}

func TestApplication_CheckFileDoesNotWrite(t *testing.T) {
	app, logs := newTestApp(t, Options{LogLevel: "info"})
	path := writeTestFile(t, "f.txt", "a  \n", 0o644)

	changed, err := app.CheckFile(path, engine.Point{})
	if err != nil {
		t.Fatalf("CheckFile() error = %v", err)
	}
	if !changed {
		t.Error("expected CheckFile to report a change")
	}
	if got := readTestFile(t, path); got != "a  \n" {
		t.Errorf("CheckFile wrote the file: %q", got)
	}
	if !strings.Contains(logs.String(), "would change") {
		t.Errorf("expected a dry-run log line, got:\n%s", logs.String())
	}
}

func TestApplication_SaveFileMissing(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	_, err := app.SaveFile(filepath.Join(t.TempDir(), "missing.txt"), engine.Point{})
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected *SaveError, got %v", err)
	}
	if app.Metrics().Snapshot().Failed != 1 {
		t.Error("expected the failure to be counted")
	}
}

func TestApplication_ReadOnlyFileUntouched(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	path := writeTestFile(t, "locked.txt", "a  \n\n", 0o444)

	changed, err := app.SaveFile(path, engine.Point{})
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if changed {
		t.Error("read-only file should not change")
	}
	if got := readTestFile(t, path); got != "a  \n\n" {
		t.Errorf("file = %q", got)
	}
}

func TestApplication_UserSettings(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, configDir, "settings.toml", `
[trim]
remove-trailing-blank-lines = false
`)
	app, _ := newTestApp(t, Options{ConfigDir: configDir})
	path := writeTestFile(t, "f.txt", "a  \n\n\n", 0o644)

	if _, err := app.SaveFile(path, engine.Point{}); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if got := readTestFile(t, path); got != "a\n\n\n" {
		t.Errorf("file = %q, want blank lines kept", got)
	}
}

func TestApplication_SettingsChangeAppliesToNextSave(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	if err := app.Config().SetBool(trim.KeyRemoveTrailingWhitespace, false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	path := writeTestFile(t, "f.txt", "a  \n\n", 0o644)

	if _, err := app.SaveFile(path, engine.Point{}); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if got := readTestFile(t, path); got != "a  " {
		t.Errorf("file = %q, want trailing spaces kept", got)
	}
}

func TestApplication_LogLevelFromConfig(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, configDir, "settings.toml", "[logging]\nlevel = \"error\"\n")

	app, _ := newTestApp(t, Options{ConfigDir: configDir})
	if app.Logger().Level() != LogLevelError {
		t.Errorf("Level() = %v, want ERROR", app.Logger().Level())
	}

	if err := app.Config().Set("logging.level", "debug"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if app.Logger().Level() != LogLevelDebug {
		t.Errorf("Level() after Set = %v, want DEBUG", app.Logger().Level())
	}
}

func TestApplication_LogLevelOptionWins(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, configDir, "settings.toml", "[logging]\nlevel = \"error\"\n")

	app, _ := newTestApp(t, Options{ConfigDir: configDir, LogLevel: "debug"})
	if app.Logger().Level() != LogLevelDebug {
		t.Errorf("Level() = %v, want DEBUG", app.Logger().Level())
	}
}

const finalNewlinePlugin = `
ks.hook.presave("final-newline", function(doc)
	local last = doc:line_count() - 1
	local text = doc:line(last)
	if text ~= "" then
		doc:replace_line(last, text .. doc:line_ending())
	end
end)
`

func TestApplication_LuaPluginRunsAfterRemover(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, plugin.DefaultPluginPath(configDir), "newline.lua", finalNewlinePlugin)

	app, _ := newTestApp(t, Options{ConfigDir: configDir})
	if app.Plugins().Count() != 1 {
		t.Fatalf("expected 1 plugin, got %d", app.Plugins().Count())
	}
	if !app.Hooks().Has("newline:final-newline") {
		t.Fatalf("plugin hook missing, have %v", app.Hooks().Names())
	}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"lf", "a  \nb\n\n\n", "a\nb\n"},
		{"crlf", "a  \r\nb\r\n\r\n", "a\r\nb\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, "f.txt", tt.content, 0o644)
			if _, err := app.SaveFile(path, engine.Point{}); err != nil {
				t.Fatalf("SaveFile() error = %v", err)
			}
			if got := readTestFile(t, path); got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplication_NoPlugins(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, plugin.DefaultPluginPath(configDir), "newline.lua", finalNewlinePlugin)

	app, _ := newTestApp(t, Options{ConfigDir: configDir, NoPlugins: true})
	if app.Plugins().Count() != 0 {
		t.Errorf("expected no plugins, got %d", app.Plugins().Count())
	}
}

func TestApplication_PluginsDisabledSetting(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, configDir, "settings.toml", "[plugins]\nenabled = false\n")
	writeConfigFile(t, plugin.DefaultPluginPath(configDir), "newline.lua", finalNewlinePlugin)

	app, _ := newTestApp(t, Options{ConfigDir: configDir})
	if app.Plugins().Count() != 0 {
		t.Errorf("expected no plugins, got %d", app.Plugins().Count())
	}
}

func TestApplication_BrokenPluginIsWarning(t *testing.T) {
	configDir := t.TempDir()
	pluginDir := plugin.DefaultPluginPath(configDir)
	writeConfigFile(t, pluginDir, "broken.lua", "this is not lua")
	writeConfigFile(t, pluginDir, "newline.lua", finalNewlinePlugin)

	app, logs := newTestApp(t, Options{ConfigDir: configDir})
	if app.Plugins().Count() != 1 {
		t.Errorf("the valid plugin should still load, got %d", app.Plugins().Count())
	}
	if !strings.Contains(logs.String(), "[WARN]") {
		t.Errorf("expected a warning for the broken plugin, got:\n%s", logs.String())
	}
}

func TestApplication_FailingPluginHookDoesNotBlockSave(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, plugin.DefaultPluginPath(configDir), "bad.lua",
		`ks.hook.presave("boom", function(doc) error("kaput") end)`)

	app, logs := newTestApp(t, Options{ConfigDir: configDir})
	path := writeTestFile(t, "f.txt", "a  \n", 0o644)

	changed, err := app.SaveFile(path, engine.Point{})
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !changed || readTestFile(t, path) != "a" {
		t.Errorf("remover should still apply, file = %q", readTestFile(t, path))
	}
	if !strings.Contains(logs.String(), "kaput") {
		t.Errorf("expected the hook failure to be logged, got:\n%s", logs.String())
	}
	if app.Metrics().Snapshot().HookErrors != 1 {
		t.Errorf("HookErrors = %d, want 1", app.Metrics().Snapshot().HookErrors)
	}
}

func TestApplication_Close(t *testing.T) {
	configDir := t.TempDir()
	writeConfigFile(t, plugin.DefaultPluginPath(configDir), "newline.lua", finalNewlinePlugin)
	app, _ := newTestApp(t, Options{ConfigDir: configDir})

	if err := app.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if app.Hooks().Count() != 0 {
		t.Errorf("hooks left after Close: %v", app.Hooks().Names())
	}
	if _, err := app.SaveFile("x", engine.Point{}); !errors.Is(err, ErrClosed) {
		t.Errorf("SaveFile() after Close error = %v, want ErrClosed", err)
	}
}
