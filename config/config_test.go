package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, 30, c.WorkoutRewardPoints)
	assert.Equal(t, 30, c.RateLimitPerMinute)
	assert.Equal(t, 24*7, c.SessionTTLHours)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Len(t, c.SpinOutcomes, 4)
	// Secrets never have defaults.
	assert.Empty(t, c.JWTSecret)
	assert.Empty(t, c.StripeSecretKey)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("WORKOUT_REWARD_POINTS", "45")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "9999", c.AppPort)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 45, c.WorkoutRewardPoints)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
}
