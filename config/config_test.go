package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "prod")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("JOB_SEARCH_TIMEOUT", "")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseUrl)
	assert.Equal(t, 20*time.Second, cfg.JobSearchTimeout)
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_TIMEOUT", "15")
	assert.Equal(t, 15*time.Second, getEnvDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "750ms")
	assert.Equal(t, 750*time.Millisecond, getEnvDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "nonsense")
	assert.Equal(t, time.Second, getEnvDuration("X_TIMEOUT", time.Second))
}

func TestSMTPConfigured(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.example.com"}
	assert.False(t, cfg.SMTPConfigured())

	cfg.SMTPUsername = "user"
	cfg.SMTPPassword = "pass"
	assert.True(t, cfg.SMTPConfigured())
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	assert.Nil(t, getEnvList("TRUSTED_PROXIES"))

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.2 ")
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.2"}, getEnvList("TRUSTED_PROXIES"))
}
