package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	require.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.Submissions.DefaultPageSize)
	assert.Equal(t, 100, cfg.Submissions.MaxPageSize)
	assert.True(t, cfg.Submissions.AllowResubmittedReview)
	assert.Equal(t, time.Minute, cfg.Discovery.CacheTTL)
	assert.Equal(t, "exhibit_submissions", cfg.Events.NSQTopic)
	assert.InDelta(t, 0.1, cfg.Tracing.SampleRatio, 1e-9)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ALLOWED_ORIGINS", "https://museum.example, ,https://admin.example")
	v.Set("DISCOVERY_CACHE_TTL", "not-a-duration")
	v.Set("SUBMISSIONS_ALLOW_RESUBMITTED_REVIEW", false)
	v.Set("OTEL_SAMPLER_RATIO", 4.2)

	cfg := fromViper(v)
	assert.Equal(t, []string{"https://museum.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Discovery.CacheTTL)
	assert.False(t, cfg.Submissions.AllowResubmittedReview)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}
