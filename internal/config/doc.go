// Package config loads hilite settings.
//
// Settings are merged from several sources, later ones overriding earlier:
//
//	┌─────────────────────────────┐
//	│  4. Overrides (CLI flags)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (HILITE_*)  │
//	├─────────────────────────────┤
//	│  2. Config files            │  ← ~/.config/hilite/config.toml, then --config
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Files may be TOML, YAML or JSON and may pull in other files with an
// "@include" key.
//
// # Sub-packages
//
//   - loader: file and environment loading, DeepMerge
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithFiles(config.DefaultUserConfigFile()))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	hl := cfg.Highlight()
//
// Typed section accessors never fail. A value of the wrong type or out of
// range is replaced by its default and reported through ConfigErrors.
//
// # Live Reload
//
// Watch reloads the configuration when one of its files changes and then
// calls the handlers registered with OnReload:
//
//	cfg.OnReload(func(c *config.Config) { restyle(c.Highlight().Theme) })
//	if err := cfg.Watch(); err != nil {
//	    return err
//	}
//	defer cfg.Close()
package config
