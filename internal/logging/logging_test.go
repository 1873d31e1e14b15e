package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/example/agenda/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		verbose bool
		want    zapcore.Level
		wantErr bool
	}{
		{"info", config.LogConfig{Level: "info"}, false, zapcore.InfoLevel, false},
		{"verbose overrides", config.LogConfig{Level: "warn"}, true, zapcore.DebugLevel, false},
		{"development", config.LogConfig{Level: "error", Development: true}, false, zapcore.ErrorLevel, false},
		{"unknown level", config.LogConfig{Level: "loud"}, false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.verbose)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if !logger.Core().Enabled(tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Errorf("level below %s enabled", tt.want)
			}
		})
	}
}
