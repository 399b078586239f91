package testutil

import "go.uber.org/zap"

// NewLogger returns a no-op logger for tests.
func NewLogger() *zap.Logger {
	return zap.NewNop()
}
