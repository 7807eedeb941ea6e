// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package logutil provides logging utilities for the cidsrv server.
package logutil

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJson = "json"
)

var (
	// loggedKeys tracks which keys have already been logged
	loggedKeys = make(map[string]struct{})
	// mutex protects access to the loggedKeys map
	mutex sync.Mutex
)

// Configure sets the level and formatter of the standard logrus logger.
// Colors are forced in dev mode.
func Configure(out io.Writer, level string, format string, isDev bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	switch format {
	case FormatText:
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   isDev,
			FullTimestamp: true,
		})
	case FormatJson:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	if out != nil {
		logrus.SetOutput(out)
	}
	logrus.SetLevel(lvl)
	return nil
}

// shouldLog checks if a message with the given key should be logged
// and marks the key as logged if it hasn't been seen before.
func shouldLog(key string) bool {
	mutex.Lock()
	defer mutex.Unlock()
	if _, exists := loggedKeys[key]; exists {
		return false
	}
	loggedKeys[key] = struct{}{}
	return true
}

// WarnfOnce logs a warning with the given key only once.
func WarnfOnce(key string, format string, args ...interface{}) {
	if !shouldLog(key) {
		return
	}
	logrus.Warnf(format, args...)
}
