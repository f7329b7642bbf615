// SPDX-License-Identifier: MIT
// Package logging is the structured logger used by the orchestrator and the
// command-line driver. Callers depend on the small Logger interface; the
// production implementation is backed by go.uber.org/zap.
package logging

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used throughout the module.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]any)
	Info(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// Zap adapts a *zap.Logger to Logger.
type Zap struct {
	log *zap.Logger
}

// NewZap builds a JSON production logger writing to stderr at the given
// level ("debug", "info", "warn", "error"). An empty level means info.
func NewZap(level string) (*Zap, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("logging: level %q: %w", level, err)
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}

	return &Zap{log: l}, nil
}

// Wrap adapts an existing zap logger.
func Wrap(l *zap.Logger) *Zap {
	if l == nil {
		l = zap.NewNop()
	}
	return &Zap{log: l}
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return Wrap(zap.NewNop()) }

// Sync flushes buffered entries.
func (z *Zap) Sync() error { return z.log.Sync() }

func (z *Zap) Debug(_ context.Context, msg string, fields map[string]any) {
	z.log.Debug(msg, toFields(fields)...)
}

func (z *Zap) Info(_ context.Context, msg string, fields map[string]any) {
	z.log.Info(msg, toFields(fields)...)
}

func (z *Zap) Warn(_ context.Context, msg string, fields map[string]any) {
	z.log.Warn(msg, toFields(fields)...)
}

func (z *Zap) Error(_ context.Context, msg string, err error, fields map[string]any) {
	z.log.Error(msg, append(toFields(fields), zap.Error(err))...)
}

// toFields converts in key order so that entries are reproducible.
func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields)+1)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, zap.Any(k, fields[k]))
	}

	return out
}
