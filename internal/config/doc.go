// Package config provides the layered settings store for trimsave.
//
// # Architecture
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Environment Variables   │  ← TRIMSAVE_TRIM_PRESERVE_CURSOR=false
//	├─────────────────────────────┤
//	│  3. Project Settings        │  ← ./.trimsave.toml
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/trimsave/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Set writes to the user layer and persists settings.toml immediately.
// When the watcher is enabled, edits made to the settings files by other
// programs are reloaded and reported to subscribers.
//
// # Sub-packages
//
//   - layer: layer storage and priority merging
//   - loader: TOML files and environment variables
//   - notify: change subscriptions
//   - watcher: file change detection for live reload
//
// # Usage
//
//	cfg := config.New(config.WithWatcher(false))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	preserve, err := cfg.GetBool("trim.preserve-cursor")
package config
