// Package logging builds the zap logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encodings
const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

// Config selects level and encoding.
type Config struct {
	Level    string // debug, info, warn, error
	Encoding string // console or json
}

// New builds a logger writing to stderr. Console output is routed through
// go-colorable so level colors work on Windows terminals.
func New(cfg Config) (*zap.Logger, error) {
	var w io.Writer = colorable.NewColorableStderr()
	return NewWithWriter(cfg, w)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	var enc zapcore.Encoder
	switch cfg.Encoding {
	case "", EncodingConsole:
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case EncodingJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unsupported log encoding: %s", cfg.Encoding)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}

// WithRun tags every entry of log with a fresh run identifier.
func WithRun(log *zap.Logger) *zap.Logger {
	return log.With(zap.String("run", RunID()))
}

// RunID generates a time-ordered run identifier.
func RunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
