package mul

import "log/slog"

// Option configures a Load call.
type Option func(*loadConfig)

type loadConfig struct {
	logger  *slog.Logger
	workers int
}

// defaultWorkers bounds concurrent decoding of index-referenced files.
const defaultWorkers = 4

func newLoadConfig(opts []Option) loadConfig {
	cfg := loadConfig{workers: defaultWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	return cfg
}

// log returns the configured logger, falling back to a discard logger.
func (cfg *loadConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}

// WithLogger sets the logger for decode tracing. If not set, logging
// is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *loadConfig) {
		cfg.logger = logger
	}
}

// WithWorkers caps how many index-referenced files are decoded
// concurrently. Values below 1 force serial decoding. Combined files
// always decode serially, and record order never depends on this
// setting.
func WithWorkers(n int) Option {
	return func(cfg *loadConfig) {
		cfg.workers = n
	}
}
