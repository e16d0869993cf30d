package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "VOCAB_TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "VOCAB_TEST_KEY_NOT_SET",
			defaultValue: "default",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.expected, getEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestLoad_ParsesTypedValues(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " root@example.com, ,ops@example.com ")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("SCHEDULER_INTERVAL", "30s")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg := Load()

	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.False(t, cfg.RateLimitEnabled)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, 30*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SCHEDULER_INTERVAL", "soon")

	assert.Equal(t, 10*time.Minute, Load().SchedulerInterval)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "default secret in production",
			cfg:     Config{Env: "production", DatabaseDriver: "postgres", JWTSecret: defaultJWTSecret},
			wantErr: true,
		},
		{
			name: "default secret in development",
			cfg:  Config{Env: "development", DatabaseDriver: "sqlite", JWTSecret: defaultJWTSecret},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Env: "development", DatabaseDriver: "mongo", JWTSecret: "s"},
			wantErr: true,
		},
		{
			name: "custom secret in production",
			cfg:  Config{Env: "production", DatabaseDriver: "postgres", JWTSecret: "s3cret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_GoogleEnabled(t *testing.T) {
	assert.False(t, (&Config{GoogleClientID: "id"}).GoogleEnabled())
	assert.True(t, (&Config{GoogleClientID: "id", GoogleClientSecret: "secret"}).GoogleEnabled())
}
