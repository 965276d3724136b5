package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"evaluator/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		level   zapcore.Level
		wantErr bool
	}{
		{"json info", config.LoggingConfig{Level: "info", Format: "json"}, zapcore.InfoLevel, false},
		{"console debug", config.LoggingConfig{Level: "DEBUG", Format: "console"}, zapcore.DebugLevel, false},
		{"bad level", config.LoggingConfig{Level: "loud", Format: "json"}, 0, true},
		{"bad format", config.LoggingConfig{Level: "info", Format: "xml"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			assert.False(t, logger.Core().Enabled(tt.level-1))
		})
	}
}
