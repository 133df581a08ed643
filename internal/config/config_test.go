package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "")
	os.Unsetenv("RESEND_API_KEY")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "resend", cfg.MailTransport)
	assert.Equal(t, "noreply@jobseeker.app", cfg.FromAddress)
	assert.Equal(t, 1, cfg.ScrapeConcurrency)
	assert.Equal(t, 3*time.Second, cfg.TrackingWriteTimeout)
	assert.Empty(t, cfg.ResendAPIKey)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: "5432", Name: "jobs", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/jobs?sslmode=disable", d.DSN())

	d.URL = "postgres://override"
	assert.Equal(t, "postgres://override", d.DSN())
}

func TestTrackingURL(t *testing.T) {
	cfg := &Config{BackendURL: "https://xyz.backend.co/"}
	assert.Equal(t, "https://xyz.backend.co/functions/v1", cfg.TrackingURL())

	cfg.TrackingBaseURL = "https://track.jobseeker.app/"
	assert.Equal(t, "https://track.jobseeker.app", cfg.TrackingURL())

	assert.Empty(t, (&Config{}).FunctionsURL())
}
