//nolint:testpackage // Tests require internal access for thorough testing
package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/abatilo/taskrank/internal/config"
)

func TestSetupLoggerWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskrank.log")

	logger, err := SetupLogger(config.LogConfig{
		Level:   "debug",
		Format:  "json",
		Outputs: []string{path},
	})
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}

	logger.Debug("analyzed batch")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"analyzed batch"`) {
		t.Errorf("log file = %q, want a JSON entry for the message", data)
	}
}

func TestSetupLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := SetupLogger(config.LogConfig{Level: tt.level, Outputs: []string{"stderr"}})
			if err != nil {
				t.Fatalf("SetupLogger failed: %v", err)
			}
			if !logger.Core().Enabled(tt.want) {
				t.Errorf("level %s should be enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Errorf("level %s should be disabled", tt.want-1)
			}
		})
	}
}

func TestSetupLoggerRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.log")

	logger, err := SetupLogger(config.LogConfig{
		Level:    "info",
		Outputs:  []string{"ignored.log"},
		Rotation: config.RotationConfig{Enable: true, Filename: path},
	})
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	logger.Info("rotating")
	_ = logger.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("rotation file not created: %v", err)
	}
}
