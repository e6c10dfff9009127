package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. Debug mode selects the zap
// development config (console output, debug level enabled); otherwise
// the production config is used.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	return logger.Sugar(), nil
}
