package logging

import "go.uber.org/zap"

// New creates a zap logger for the given environment. Unknown environments
// get the example logger.
func New(environment string) (*zap.Logger, error) {
	switch environment {
	case "local", "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}
