package store

import (
	"strings"

	"github.com/blues/cfc/internal/logger"
)

// badgerLogger 把 badger 的日志接到统一日志器上
type badgerLogger struct{}

func newBadgerLogger() *badgerLogger {
	return &badgerLogger{}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error("badger: "+strings.TrimSuffix(format, "\n"), args...)
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn("badger: "+strings.TrimSuffix(format, "\n"), args...)
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	logger.Info("badger: "+strings.TrimSuffix(format, "\n"), args...)
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Debug("badger: "+strings.TrimSuffix(format, "\n"), args...)
}
