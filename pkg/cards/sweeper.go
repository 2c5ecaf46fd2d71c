package cards

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ethanbaker/cardbot/pkg/logger"
)

// DefaultSweepSpec runs the stale search term sweep once a day
const DefaultSweepSpec = "@daily"

// Sweeper periodically purges stale search terms. Query already purges
// lazily; the sweep keeps the table bounded when the read path is idle.
type Sweeper struct {
	lookups LookupStorage
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger

	cron    *cron.Cron
	mutex   sync.Mutex
	started bool
}

// SweeperOptions contains configuration options for the Sweeper
type SweeperOptions struct {
	Spec   string           // Cron spec, defaults to DefaultSweepSpec
	TTL    time.Duration    // Staleness TTL, defaults to DefaultLookupTTL
	Now    func() time.Time // Clock, defaults to time.Now
	Logger *zap.Logger
}

// NewSweeper creates a sweeper for the given lookup storage. It is not started.
func NewSweeper(lookups LookupStorage, opts *SweeperOptions) (*Sweeper, error) {
	if lookups == nil {
		return nil, fmt.Errorf("a valid lookup storage must be provided")
	}
	if opts == nil {
		opts = &SweeperOptions{}
	}

	s := &Sweeper{
		lookups: lookups,
		ttl:     opts.TTL,
		now:     opts.Now,
		log:     opts.Logger,
		cron:    cron.New(),
	}
	if s.ttl <= 0 {
		s.ttl = DefaultLookupTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.WithModule("cards-sweeper")
	}

	spec := opts.Spec
	if spec == "" {
		spec = DefaultSweepSpec
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid sweep spec %q: %w", spec, err)
	}

	return s, nil
}

// Start begins running sweeps on schedule
func (s *Sweeper) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started {
		return
	}
	s.started = false
	<-s.cron.Stop().Done()
}

// Sweep removes every search term older than the TTL and returns how many were removed
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.lookups.Purge(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale card lookups: %w", err)
	}

	return removed, nil
}

// run is the scheduled sweep
func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.Sweep(ctx)
	if err != nil {
		s.log.Warn("scheduled sweep failed", zap.Error(err))
		return
	}

	s.log.Info("swept stale card lookups", zap.Int64("removed", removed))
}
