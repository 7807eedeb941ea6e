// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cidsrv/cidsrv/pkg/serverbase"
	"github.com/cidsrv/cidsrv/pkg/utilfn"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type LoadOpts struct {
	// ConfigFile is an explicit YAML config path, it wins over CIDSRV_CONFIG
	ConfigFile string
	// DotEnvFile defaults to .env in the working directory
	DotEnvFile string
}

// LoadConfig layers defaults, the YAML config file, the .env file and the
// environment. CLI flags are applied by the caller, then Resolve is called.
func LoadConfig(opts LoadOpts) (*Config, error) {
	// 1. .env only fills variables that are not already set
	dotEnvFile := utilfn.FirstNonEmpty(opts.DotEnvFile, serverbase.DotEnvFileName)
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// 2. explicit config file, then the env var
	configFile := utilfn.FirstNonEmpty(opts.ConfigFile, os.Getenv(serverbase.ConfigFileEnvName))
	if configFile != "" {
		if err := loadConfigFile(utilfn.ExpandHomeDir(configFile), cfg); err != nil {
			return nil, err
		}
	}

	// 3. environment
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // no .env is fine
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("cannot load %s: %w", path, err)
	}
	return nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if val := os.Getenv(serverbase.DataFileEnvName); val != "" {
		cfg.DataFile = val
	}
	if val := os.Getenv(serverbase.HostEnvName); val != "" {
		cfg.Host = val
	}
	if val := os.Getenv(serverbase.PortEnvName); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", serverbase.PortEnvName, val, err)
		}
		cfg.Port = port
	}
	if err := envBool(serverbase.DevEnvName, &cfg.Dev); err != nil {
		return err
	}
	if err := envBool(serverbase.DataLockEnvName, &cfg.DataLock); err != nil {
		return err
	}
	if val := os.Getenv(serverbase.LogLevelEnvName); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv(serverbase.LogFormatEnvName); val != "" {
		cfg.LogFormat = val
	}
	return nil
}

func envBool(name string, dest *bool) error {
	val := os.Getenv(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, val, err)
	}
	*dest = parsed
	return nil
}
