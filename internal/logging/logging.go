// Package logging builds the zap logger shared by all commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps the console quiet unless something needs attention.
const DefaultLevel = "warn"

// ParseLevel converts a level name such as "debug" into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		level = DefaultLevel
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return l, fmt.Errorf("invalid log level %q (use debug, info, warn, or error)", level)
	}
	return l, nil
}

// New returns a console logger writing to stderr.
func New(level string) (*zap.Logger, error) {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter returns a console logger writing to w.
func NewWithWriter(level string, w io.Writer) (*zap.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		l,
	)

	return zap.New(core).Named("gachalog"), nil
}
