package bootstrap

import (
	"c2_console/internal/core"
	"c2_console/pkg/logging"
)

// InitLogger builds the process logger from configuration and installs it
// as the global fallback.
func InitLogger(cfg *Config) (core.ILogger, error) {
	logger, err := logging.NewZapLogger(cfg.System.LogLevel)
	if err != nil {
		return nil, err
	}

	logging.SetGlobalLogger(logger)
	return logger.WithField("strategy_id", cfg.Collective2.StrategyID), nil
}
