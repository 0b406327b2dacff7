package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zap sugared logger with the printf-style helpers the miner uses
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New creates a console logger on stdout
func New(verbose bool) *Logger {
	return NewWriter(os.Stdout, verbose)
}

// NewWriter creates a console logger that writes to the provided writer
func NewWriter(w io.Writer, verbose bool) *Logger {
	core := zapcore.NewCore(consoleEncoder(), zapcore.Lock(zapcore.AddSync(w)), level(verbose))
	return NewZap(zap.New(core))
}

// NewFile logs to stdout and to a rotated log file
func NewFile(path string, verbose bool) *Logger {
	fileLogger := &lumberjack.Logger{
		Filename: path,
		MaxSize:  100, // megabytes
		MaxAge:   28,
		Compress: true,
	}
	encoder := consoleEncoder()
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level(verbose)),
		zapcore.NewCore(encoder, zapcore.AddSync(fileLogger), zap.DebugLevel),
	)
	return NewZap(zap.New(core))
}

// NewZap wraps an existing zap logger
func NewZap(l *zap.Logger) *Logger {
	return &Logger{
		SugaredLogger: l.Sugar(),
		base:          l,
	}
}

// Printf logs at info level
func (l *Logger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

// Println logs at info level
func (l *Logger) Println(args ...interface{}) {
	l.Infoln(args...)
}

// Named returns a child logger with the given name segment
func (l *Logger) Named(name string) *Logger {
	return NewZap(l.base.Named(name))
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.base.Sync()
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func level(verbose bool) zapcore.Level {
	if verbose {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}
