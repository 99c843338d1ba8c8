// Copyright 2026 The chainsidecar Authors
// This file is part of the chainsidecar indexer.
//
// The chainsidecar indexer is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The chainsidecar indexer is distributed in the hope that it will be
// useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the chainsidecar indexer. If not, see
// <http://www.gnu.org/licenses/>.

// Package logging constructs the module-scoped loggers used throughout the
// indexer, mirroring the teacher's log.NewModuleLogger convention of one
// key/value logger per subsystem.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once sync.Once
	base *zap.Logger
)

func Base() *zap.Logger {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		base = l
	})
	return base
}

// New returns a sugared logger scoped to module, e.g. logging.New("store").
func New(module string) *zap.SugaredLogger {
	return Base().Sugar().Named(module)
}

// SetBase overrides the process-wide base logger for loggers created by New
// afterwards; loggers created earlier keep the previous base.
func SetBase(l *zap.Logger) {
	once.Do(func() {})
	base = l
}
