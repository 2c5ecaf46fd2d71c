package cards

import (
	"time"

	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/cards"
	"github.com/ethanbaker/cardbot/pkg/logger"
)

// LookupOption customises a search term index
type LookupOption func(*lookupConfig)

type lookupConfig struct {
	ttl time.Duration
	now func() time.Time
	log *zap.Logger
}

// WithTTL overrides how long a search term stays valid
func WithTTL(ttl time.Duration) LookupOption {
	return func(cfg *lookupConfig) {
		if ttl > 0 {
			cfg.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for last updated stamps and staleness
func WithClock(now func() time.Time) LookupOption {
	return func(cfg *lookupConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithLogger sets the logger used for best-effort purge failures
func WithLogger(log *zap.Logger) LookupOption {
	return func(cfg *lookupConfig) {
		if log != nil {
			cfg.log = log
		}
	}
}

func newLookupConfig(opts []LookupOption) lookupConfig {
	cfg := lookupConfig{
		ttl: cards.DefaultLookupTTL,
		now: time.Now,
		log: logger.WithModule("card-lookups"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// threshold is the last updated stamp at or below which an entry is stale
func (cfg lookupConfig) threshold() time.Time {
	return cfg.now().Add(-cfg.ttl)
}
