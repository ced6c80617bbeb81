// Package logging owns the process-wide zap logger. Components take a named
// child logger at construction time instead of logging through globals.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the root logger. It discards everything until Init is called.
var Log = zap.NewNop().Sugar()

// Init builds the root logger writing to stderr and, when filePath is set,
// to a rolling log file.
func Init(filePath string, debug bool) error {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
		EncodeName:    zapcore.FullNameEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		// 10MB per file, 3 backups, 7 days
		lj := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(lj), level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
	return nil
}

// Named returns a child of the root logger.
func Named(name string) *zap.SugaredLogger {
	return Log.Named(name)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
