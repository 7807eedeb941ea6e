// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package logutil

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})
}

func TestConfigureJson(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(&buf, "debug", FormatJson, false))
	logrus.WithField("reqid", "abc").Debug("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc", entry["reqid"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigureLevelFilters(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(&buf, "warn", FormatText, false))
	logrus.Info("hidden")
	logrus.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigureErrors(t *testing.T) {
	resetLogger(t)
	assert.Error(t, Configure(nil, "loud", FormatText, false))
	assert.Error(t, Configure(nil, "info", "xml", false))
}

func TestWarnfOnce(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(&buf, "info", FormatText, false))
	WarnfOnce("test-warn-once", "lock unavailable: %s", "x")
	WarnfOnce("test-warn-once", "lock unavailable: %s", "y")
	assert.Equal(t, 1, strings.Count(buf.String(), "lock unavailable"))
}
