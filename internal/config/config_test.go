package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("EVALUATION_LOG_DRIVER", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.False(t, cfg.EvaluationLogEnabled())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_BASE", "http://localhost:9999/v1/")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("SESSION_SWEEP_INTERVAL", "30s")
	t.Setenv("EVALUATION_LOG_DRIVER", "SQLite")
	t.Setenv("EVALUATION_LOG_DSN", "file:evals.db")
	t.Setenv("OPENAI_CHAT_MAX_TOKENS", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "http://localhost:9999/v1", cfg.OpenAI.APIBase)
	assert.Equal(t, 90*time.Second, cfg.Session.TTL)
	assert.Equal(t, 30*time.Second, cfg.Session.SweepInterval)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "file:evals.db", cfg.EvaluationLogDSN())
	assert.Equal(t, 1024, cfg.OpenAI.ChatMaxTokens)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "OPENAI_CHAT_MAX_TOKENS")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Logging: LoggingConfig{Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, true},
		{"sqlite without dsn", func(c *Config) { c.Store.Driver = DriverSQLite }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluationLogDSNAssembled(t *testing.T) {
	c := &Config{Store: StoreConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "evals", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=evals sslmode=disable", c.EvaluationLogDSN())
}
