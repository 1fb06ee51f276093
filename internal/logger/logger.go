// Package logger builds the zap logger shared by every component.
package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
)

var Module = fx.Provide(
	func(cfg *config.Config) (*zap.SugaredLogger, error) {
		return New(cfg.LogLevel)
	},
)

// New returns a production logger at the given level. The "debug" level
// switches to the development encoder.
func New(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	return l.Sugar(), nil
}
