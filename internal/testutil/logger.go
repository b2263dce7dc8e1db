package testutil

import (
	"io"

	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
