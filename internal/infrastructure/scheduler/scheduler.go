// Package scheduler runs the periodic background work: dispatching due
// scheduled announcements and purging expired invoice unlock tokens.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// NotificationDispatcher sends scheduled notifications whose time has come
type NotificationDispatcher interface {
	DispatchDue(ctx context.Context, now time.Time, limit int) (int, error)
}

// TokenPurger removes expired invoice unlock tokens
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Config holds scheduler configuration
type Config struct {
	// Enabled indicates if the scheduler runs at all
	Enabled bool
	// DispatchInterval is how often due notifications are checked
	DispatchInterval time.Duration
	// DispatchBatchSize caps how many notifications go out per tick
	DispatchBatchSize int
	// TokenPurgeInterval is how often expired unlock tokens are purged
	TokenPurgeInterval time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		DispatchInterval:   30 * time.Second,
		DispatchBatchSize:  50,
		TokenPurgeInterval: 5 * time.Minute,
	}
}

// Scheduler runs the interval loops. Both loops are independent; a slow
// dispatch never delays token purging.
type Scheduler struct {
	config     Config
	dispatcher NotificationDispatcher
	purger     TokenPurger
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastDispatchAt *time.Time
	lastPurgeAt    *time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(config Config, dispatcher NotificationDispatcher, purger TokenPurger, logger *zap.Logger) *Scheduler {
	if config.DispatchInterval <= 0 {
		config.DispatchInterval = DefaultConfig().DispatchInterval
	}
	if config.DispatchBatchSize <= 0 {
		config.DispatchBatchSize = DefaultConfig().DispatchBatchSize
	}
	if config.TokenPurgeInterval <= 0 {
		config.TokenPurgeInterval = DefaultConfig().TokenPurgeInterval
	}
	return &Scheduler{
		config:     config,
		dispatcher: dispatcher,
		purger:     purger,
		logger:     logger,
	}
}

// Start starts the interval loops
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.dispatchLoop(ctx)

	s.wg.Add(1)
	go s.purgeLoop(ctx)

	s.logger.Info("Scheduler started",
		zap.Duration("dispatch_interval", s.config.DispatchInterval),
		zap.Int("dispatch_batch_size", s.config.DispatchBatchSize),
		zap.Duration("token_purge_interval", s.config.TokenPurgeInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerDispatch runs one dispatch pass immediately
func (s *Scheduler) TriggerDispatch(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	s.dispatch(ctx, time.Now())
	return nil
}

// GetStatus returns the current scheduler status
func (s *Scheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":              s.config.Enabled,
		"is_running":           s.isRunning,
		"dispatch_interval":    s.config.DispatchInterval.String(),
		"token_purge_interval": s.config.TokenPurgeInterval.String(),
		"last_dispatch_at":     s.lastDispatchAt,
		"last_purge_at":        s.lastPurgeAt,
	}
}

func (s *Scheduler) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.DispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.dispatch(ctx, now)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.lastDispatchAt = &now
	s.mu.Unlock()

	sent, err := s.dispatcher.DispatchDue(ctx, now, s.config.DispatchBatchSize)
	if err != nil {
		s.logger.Error("Scheduled notification dispatch failed", zap.Error(err))
		return
	}
	if sent > 0 {
		s.logger.Debug("Dispatch pass complete", zap.Int("sent", sent))
	}
}

func (s *Scheduler) purgeLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.TokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			s.lastPurgeAt = &now
			s.mu.Unlock()

			if _, err := s.purger.PurgeExpiredTokens(ctx, now); err != nil {
				s.logger.Error("Unlock token purge failed", zap.Error(err))
			}
		}
	}
}
