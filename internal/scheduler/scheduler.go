package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
)

// TokenPurger removes refresh tokens that can no longer be used.
type TokenPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type SchedulerConfig struct {
	Interval time.Duration
}

// MaintenanceScheduler periodically purges dead refresh tokens and reloads the
// registered language codes used by request validation.
type MaintenanceScheduler struct {
	tokens    TokenPurger
	codes     *validator.LanguageValidator
	languages validator.CodeSource
	interval  time.Duration
	log       *zap.Logger
	now       func() time.Time

	mu           sync.Mutex
	running      bool
	stopChan     chan struct{}
	runs         int
	lastRun      time.Time
	purgedTokens int64
	codeCount    int
	lastError    string
}

type Status struct {
	Enabled       bool       `json:"enabled"`
	Running       bool       `json:"running"`
	Interval      string     `json:"interval"`
	Runs          int        `json:"runs"`
	LastRun       *time.Time `json:"lastRun,omitempty"`
	PurgedTokens  int64      `json:"purgedTokens"`
	LanguageCodes int        `json:"languageCodes"`
	LastError     string     `json:"lastError,omitempty"`
}

func NewMaintenanceScheduler(tokens TokenPurger, codes *validator.LanguageValidator, languages validator.CodeSource, cfg SchedulerConfig, log *zap.Logger) *MaintenanceScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	return &MaintenanceScheduler{
		tokens:    tokens,
		codes:     codes,
		languages: languages,
		interval:  cfg.Interval,
		log:       log,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per interval until ctx is
// cancelled or Stop is called.
func (s *MaintenanceScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.log.Info("maintenance scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.markStopped()
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		s.log.Info("maintenance scheduler stopped")
	}
}

func (s *MaintenanceScheduler) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// RunOnce executes every maintenance job. A failing job does not stop the others.
func (s *MaintenanceScheduler) RunOnce(ctx context.Context) {
	now := s.now()

	purged, purgeErr := s.tokens.PurgeExpired(ctx, now)
	if purgeErr != nil {
		s.log.Warn("refresh token purge failed", zap.Error(purgeErr))
	} else if purged > 0 {
		s.log.Info("purged refresh tokens", zap.Int64("count", purged))
	}

	codeCount, loadErr := s.codes.Load(ctx, s.languages)
	if loadErr != nil {
		s.log.Warn("language code reload failed", zap.Error(loadErr))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = now
	if purgeErr == nil {
		s.purgedTokens += purged
	}
	if loadErr == nil {
		s.codeCount = codeCount
	}
	if err := errors.Join(purgeErr, loadErr); err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

// GetStatus returns current scheduler status
func (s *MaintenanceScheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		Enabled:       true,
		Running:       s.running,
		Interval:      s.interval.String(),
		Runs:          s.runs,
		PurgedTokens:  s.purgedTokens,
		LanguageCodes: s.codeCount,
		LastError:     s.lastError,
	}
	if !s.lastRun.IsZero() {
		lastRun := s.lastRun
		status.LastRun = &lastRun
	}
	return status
}
