// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cidsrv/cidsrv/pkg/serverbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envNames = []string{
	serverbase.DataFileEnvName,
	serverbase.PortEnvName,
	serverbase.ConfigFileEnvName,
	serverbase.HostEnvName,
	serverbase.DevEnvName,
	serverbase.LogLevelEnvName,
	serverbase.LogFormatEnvName,
	serverbase.DataLockEnvName,
}

// clearEnv unsets every config env var for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func noDotEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(LoadOpts{DotEnvFile: noDotEnv(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.DataFile = "/srv/cid.json"
	require.NoError(t, cfg.Resolve())
	assert.Equal(t, serverbase.ProdWebServerPort, cfg.Port)
	assert.Equal(t, "127.0.0.1:5005", cfg.ListenAddr())
	assert.Equal(t, "/srv/cid.json.lock", cfg.DataLockPath())
}

func TestLoadConfigDevPort(t *testing.T) {
	clearEnv(t)
	t.Setenv(serverbase.DevEnvName, "1")
	t.Setenv(serverbase.DataFileEnvName, "/srv/cid.json")
	cfg, err := LoadConfig(LoadOpts{DotEnvFile: noDotEnv(t)})
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve())
	assert.True(t, cfg.Dev)
	assert.Equal(t, serverbase.DevWebServerPort, cfg.Port)
}

func TestLoadConfigLayers(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configFile := filepath.Join(dir, "cidsrv.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("data_file: /from/yaml.json\nport: 7000\nlog_level: debug\nhost: 0.0.0.0\n"), 0644))

	// env beats the yaml file
	t.Setenv(serverbase.PortEnvName, "8000")
	t.Setenv(serverbase.LogFormatEnvName, "JSON")

	cfg, err := LoadConfig(LoadOpts{ConfigFile: configFile, DotEnvFile: noDotEnv(t)})
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve())
	assert.Equal(t, "/from/yaml.json", cfg.DataFile)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, LogFormatJson, cfg.LogFormat)
	assert.Equal(t, "0.0.0.0", cfg.Host)
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	configFile := filepath.Join(t.TempDir(), "cidsrv.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("data_file: /x.json\ndata_lock: true\n"), 0644))
	t.Setenv(serverbase.ConfigFileEnvName, configFile)

	cfg, err := LoadConfig(LoadOpts{DotEnvFile: noDotEnv(t)})
	require.NoError(t, err)
	assert.Equal(t, "/x.json", cfg.DataFile)
	assert.True(t, cfg.DataLock)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	dotEnv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotEnv, []byte("JSON_FILE_PATH=/from/dotenv.json\nPORT=9000\n"), 0644))

	// already set env vars are not overridden by .env
	t.Setenv(serverbase.PortEnvName, "9100")

	cfg, err := LoadConfig(LoadOpts{DotEnvFile: dotEnv})
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv.json", cfg.DataFile)
	assert.Equal(t, 9100, cfg.Port)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad port", env: map[string]string{serverbase.PortEnvName: "http"}},
		{name: "bad dev flag", env: map[string]string{serverbase.DevEnvName: "maybe"}},
		{name: "unknown yaml field", yaml: "datafile: /x.json\n"},
		{name: "malformed yaml", yaml: "port: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := LoadOpts{DotEnvFile: noDotEnv(t)}
			if tt.yaml != "" {
				opts.ConfigFile = filepath.Join(t.TempDir(), "c.yaml")
				require.NoError(t, os.WriteFile(opts.ConfigFile, []byte(tt.yaml), 0644))
			}
			_, err := LoadConfig(opts)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(LoadOpts{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), DotEnvFile: noDotEnv(t)})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.DataFile = "/srv/cid.json"
		cfg.Port = 5005
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no data file", mutate: func(c *Config) { c.DataFile = "" }},
		{name: "port too low", mutate: func(c *Config) { c.Port = 0 }},
		{name: "port too high", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
