package limiter

import (
	"context"
	"fmt"
	"time"
)

// Storage is a fixed-window counter store.
type Storage interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

const (
	ActionAuth         = "auth"
	ActionQuizGenerate = "quiz.generate"
	ActionQuizSubmit   = "quiz.submit"
	ActionExport       = "export"
)

var DefaultLimits = map[string]ActionConfig{
	ActionAuth:         {Limit: 10, Window: time.Minute},
	ActionQuizGenerate: {Limit: 30, Window: time.Minute},
	ActionQuizSubmit:   {Limit: 30, Window: time.Minute},
	ActionExport:       {Limit: 10, Window: time.Minute},
}

var defaultConfig = ActionConfig{Limit: 100, Window: time.Minute}

type Limiter struct {
	storage Storage
	limits  map[string]ActionConfig
	now     func() time.Time
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"resetAt"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(storage Storage, limits map[string]ActionConfig) *Limiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &Limiter{storage: storage, limits: limits, now: time.Now}
}

// Config returns the limit applied to action.
func (l *Limiter) Config(action string) ActionConfig {
	if config, ok := l.limits[action]; ok {
		return config
	}
	return defaultConfig
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config := l.Config(action)
	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.storage.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.storage.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}
	if ttl < 0 {
		ttl = config.Window
	}

	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl).Unix(),
		Limit:     config.Limit,
	}, nil
}
