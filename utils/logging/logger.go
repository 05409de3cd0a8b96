// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging wraps zap behind the leveled Logger interface the rest of
// the repository logs through.
package logging

import "go.uber.org/zap"

// Logger defines the interface that is used to keep a record of all events
// that happen to the program
type Logger interface {
	// Fatal that the program experienced some error and the program will
	// most likely exit shortly after
	Fatal(msg string, fields ...zap.Field)

	// Error that the program experienced some error that it can recover from
	Error(msg string, fields ...zap.Field)

	// Warn that the program encountered something suspicious
	Warn(msg string, fields ...zap.Field)

	// Info the program is doing and why
	Info(msg string, fields ...zap.Field)

	// Debug detail useful when diagnosing a problem
	Debug(msg string, fields ...zap.Field)

	// Stop flushes any buffered entries
	Stop()
}
