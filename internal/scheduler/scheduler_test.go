package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/testutil"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
)

type failingPurger struct{}

func (failingPurger) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

type staticCodes []string

func (s staticCodes) Codes(context.Context) ([]string, error) {
	return s, nil
}

func TestMaintenanceScheduler_RunOnce(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := store.NewRefreshTokenStore(db)
	languages := store.NewLanguageStore(db)
	alice := testutil.CreateUser(t, db, "alice")
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, rt := range []struct {
		token     string
		expiresAt time.Time
	}{
		{"expired", now.Add(-time.Hour)},
		{"live", now.Add(time.Hour)},
	} {
		testutil.CreateRefreshToken(t, db, alice.ID, rt.token, rt.expiresAt)
	}
	testutil.CreateLanguage(t, db, "en", "English")
	testutil.CreateLanguage(t, db, "tr", "Turkish")

	codes := validator.NewLanguageValidator("en")
	s := NewMaintenanceScheduler(tokens, codes, languages, SchedulerConfig{Interval: time.Hour}, zap.NewNop())
	s.now = func() time.Time { return now }

	s.RunOnce(context.Background())

	status := s.GetStatus()
	assert.Equal(t, 1, status.Runs)
	assert.Equal(t, int64(1), status.PurgedTokens)
	assert.Equal(t, 2, status.LanguageCodes)
	assert.Empty(t, status.LastError)
	require.NotNil(t, status.LastRun)
	assert.True(t, codes.IsRegistered("tr"))

	_, err := tokens.FindValid(context.Background(), "live", now)
	assert.NoError(t, err)
}

func TestMaintenanceScheduler_JobFailureIsolated(t *testing.T) {
	codes := validator.NewLanguageValidator("en")
	s := NewMaintenanceScheduler(failingPurger{}, codes, staticCodes{"en", "pl"}, SchedulerConfig{}, zap.NewNop())

	s.RunOnce(context.Background())

	status := s.GetStatus()
	assert.Contains(t, status.LastError, "db down")
	assert.Equal(t, 2, status.LanguageCodes)
	assert.True(t, codes.IsRegistered("pl"))
	assert.Equal(t, "10m0s", status.Interval)
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	codes := validator.NewLanguageValidator()
	s := NewMaintenanceScheduler(failingPurger{}, codes, staticCodes{"en"}, SchedulerConfig{Interval: time.Hour}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.GetStatus().Runs == 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, s.GetStatus().Running)

	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.False(t, s.GetStatus().Running)
}
