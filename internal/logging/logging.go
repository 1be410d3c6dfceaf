// Package logging builds the zap loggers used across the descriptor layer.
package logging

import (
	"strings"

	. "github.com/dball/descriptors/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger at the named level. The empty level is info.
func New(level string) (logger *zap.Logger, err error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Sampling = nil
	logger, err = config.Build()
	if err != nil {
		err = NewError("logging.build", "error", err)
	}
	return
}

func ParseLevel(level string) (lvl zapcore.Level, err error) {
	if level == "" {
		lvl = zapcore.InfoLevel
		return
	}
	if err = lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		err = NewError("logging.unknownLevel", "level", level)
	}
	return
}
