// Package logger builds the zap logger used across flashai.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/flashai/internal/config"
	"github.com/abhisek/flashai/internal/store"
)

// Logger carries the sugared zap logger shared by commands and screens.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger from cfg. Production mode writes JSON, development
// mode writes console lines. Output goes to cfg.File, "stderr", or
// flashai.log in the data directory when cfg.File is empty.
func New(cfg config.LogConfig) (*Logger, error) {
	var zc zap.Config
	switch strings.ToLower(cfg.Mode) {
	case "dev", "development":
		zc = zap.NewDevelopmentConfig()
	default:
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	out, err := outputPath(cfg.File)
	if err != nil {
		return nil, err
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}

	zapLogger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func outputPath(file string) (string, error) {
	switch file {
	case config.LogToStderr:
		return "stderr", nil
	case "":
		dir, err := store.DataDir()
		if err != nil {
			return "", err
		}
		file = filepath.Join(dir, "flashai.log")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return file, nil
}

// Zap returns the structured logger for packages that take *zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.SugaredLogger.Desugar()
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}
