// Package logger описывает единый интерфейс логирования сервиса и его реализации
// поверх log/slog и go.uber.org/zap.
package logger

import (
	"fmt"
	"strings"
)

// Logger — интерфейс логгера, который используют все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New создаёт логгер по имени бэкенда и уровню логирования.
func New(backend, level string) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSlog:
		return NewSlogLoggerWithLevel(level), nil
	case BackendZap:
		return NewZapLogger(level)
	default:
		return nil, fmt.Errorf("unknown logger backend %q", backend)
	}
}

type nopLogger struct{}

// NewNopLogger возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}
