// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package serverbase

// CidsrvVersion is the current version of cidsrv
// This gets set from main-cidsrv.go during initialization
var CidsrvVersion = "v0.0.0"

// CidsrvBuildTime is the build timestamp of cidsrv
// This gets set from main-cidsrv.go during initialization
var CidsrvBuildTime = ""

// env var names kept for existing deployments
const (
	DataFileEnvName = "JSON_FILE_PATH"
	PortEnvName     = "PORT"
)

const (
	ConfigFileEnvName = "CIDSRV_CONFIG"
	HostEnvName       = "CIDSRV_HOST"
	DevEnvName        = "CIDSRV_DEV"
	LogLevelEnvName   = "CIDSRV_LOG_LEVEL"
	LogFormatEnvName  = "CIDSRV_LOG_FORMAT"
	DataLockEnvName   = "CIDSRV_DATA_LOCK"
)

const DotEnvFileName = ".env"

const DefaultHost = "127.0.0.1"

// Default production and development ports for the web server
const ProdWebServerPort = 5005
const DevWebServerPort = 6005

// DataLockSuffix is appended to the data file path to name its lock file
const DataLockSuffix = ".lock"

// GetWebServerPort returns the default web server port based on mode
func GetWebServerPort(isDev bool) int {
	if isDev {
		return DevWebServerPort
	}
	return ProdWebServerPort
}

func VersionString() string {
	if CidsrvBuildTime != "" {
		return CidsrvVersion + "+" + CidsrvBuildTime
	}
	return CidsrvVersion + "+dev"
}
