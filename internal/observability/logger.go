// Package observability contains logging setup.
package observability

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/abatilo/taskrank/internal/config"
)

const (
	minRotationSizeMB  = 10
	minRotationBackups = 1
	minRotationAgeDays = 7
)

// SetupLogger builds a zap.Logger from the provided configuration. The caller
// should defer logger.Sync().
func SetupLogger(c config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(normalizeLevel(c.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}
	atom := zap.NewAtomicLevelAt(level)

	encCfg := encoderConfig(c.Development)
	var encoder zapcore.Encoder
	if strings.ToLower(c.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	outputs := c.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	cores := make([]zapcore.Core, 0, len(outputs))
	for _, out := range outputs {
		ws, err := writeSyncer(out, c.Rotation)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, ws, atom))
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	}
	if c.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func writeSyncer(out string, rot config.RotationConfig) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(out) {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	if rot.Enable {
		filename := out
		if strings.TrimSpace(rot.Filename) != "" {
			filename = rot.Filename
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    max(rot.MaxSizeMB, minRotationSizeMB),
			MaxBackups: max(rot.MaxBackups, minRotationBackups),
			MaxAge:     max(rot.MaxAgeDays, minRotationAgeDays),
			Compress:   rot.Compress,
		}), nil
	}

	if dir := filepath.Dir(out); dir != "." {
		//nolint:gosec // G301: log directories are user-readable
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	//nolint:gosec // G302/G304: log file path comes from trusted config
	f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

func normalizeLevel(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "warning" {
		return "warn"
	}
	return l
}

func encoderConfig(dev bool) zapcore.EncoderConfig {
	if dev {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	return zap.NewProductionEncoderConfig()
}
