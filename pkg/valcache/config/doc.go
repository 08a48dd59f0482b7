// Package config provides configuration loading for valcache.
//
// Configuration is a flat key/value map loaded from YAML or JSON files
// (or built in code) with type-safe accessors that never fail — missing
// or mistyped keys fall back to caller-supplied defaults.
//
// Settings translates a loaded Config into the concrete knobs a cache
// needs: its name, worker pool sizing, and the optional journal path.
//
// Example:
//
//	cfg, err := config.FromFile("cache.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := config.SettingsFrom(cfg)
//	c, err := valcache.New(s.Name,
//	    valcache.WithWorkers(s.Workers),
//	    valcache.WithQueueDepth(s.QueueDepth))
package config
