// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/cidsrv/cidsrv/pkg/logutil"
	"github.com/cidsrv/cidsrv/pkg/serverbase"
	"github.com/cidsrv/cidsrv/pkg/utilfn"
	"github.com/sirupsen/logrus"
)

const (
	LogFormatText = logutil.FormatText
	LogFormatJson = logutil.FormatJson
)

type Config struct {
	DataFile  string `yaml:"data_file"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"` // 0 picks the default port for the mode
	Dev       bool   `yaml:"dev"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	DataLock  bool   `yaml:"data_lock"`
}

// DefaultConfig returns the configuration used when nothing else is set
func DefaultConfig() *Config {
	return &Config{
		Host:      serverbase.DefaultHost,
		LogLevel:  logrus.InfoLevel.String(),
		LogFormat: LogFormatText,
	}
}

// Resolve fills mode dependent defaults, expands ~ in the data path and
// validates the result.
func (c *Config) Resolve() error {
	if c.Port == 0 {
		c.Port = serverbase.GetWebServerPort(c.Dev)
	}
	c.DataFile = utilfn.ExpandHomeDir(c.DataFile)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("no data file configured (set %s or pass --data)", serverbase.DataFileEnvName)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJson {
		return fmt.Errorf("invalid log format %q (want %q or %q)", c.LogFormat, LogFormatText, LogFormatJson)
	}
	return nil
}

// ListenAddr returns the host:port the web server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DataLockPath returns the lock file guarding DataFile
func (c *Config) DataLockPath() string {
	return c.DataFile + serverbase.DataLockSuffix
}
