package config

// Settings holds the cache knobs extracted from a Config.
type Settings struct {
	// Name is the cache's identifying name.
	Name string

	// Workers is the listener pool's worker count.
	Workers int

	// QueueDepth is the listener pool's task queue depth.
	QueueDepth int

	// JournalPath is the SQLite change journal path.
	// Empty disables journaling.
	JournalPath string

	// Tracing enables OTel dispatch spans.
	Tracing bool
}

// Defaults used by SettingsFrom when keys are absent.
const (
	DefaultName       = "cache"
	DefaultWorkers    = 4
	DefaultQueueDepth = 64
)

// SettingsFrom extracts cache settings from a Config.
//
// Recognized keys: name, workers, queue_depth, journal_path, tracing.
func SettingsFrom(cfg Config) Settings {
	return Settings{
		Name:        cfg.String("name", DefaultName),
		Workers:     cfg.Int("workers", DefaultWorkers),
		QueueDepth:  cfg.Int("queue_depth", DefaultQueueDepth),
		JournalPath: cfg.String("journal_path", ""),
		Tracing:     cfg.Bool("tracing", false),
	}
}
