package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// PluginsDir is the directory under the user config dir that holds
// plugin scripts.
const PluginsDir = "plugins"

// DefaultPluginPath returns <configDir>/plugins.
func DefaultPluginPath(configDir string) string {
	return filepath.Join(configDir, PluginsDir)
}

// Discover returns the .lua files directly inside dir, sorted by name.
// A missing directory yields no plugins and no error.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
