// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"github.com/alexflint/go-filemutex"
	"github.com/cidsrv/cidsrv/pkg/catalog"
	"github.com/cidsrv/cidsrv/pkg/config"
	"github.com/cidsrv/cidsrv/pkg/logutil"
	"github.com/sirupsen/logrus"
)

// LoadCatalog reads cfg.DataFile. With DataLock set, the read happens under a
// shared lock on <data>.lock, so a writer holding the exclusive lock is never
// read mid-write. If the lock file cannot be opened the load goes ahead
// unlocked.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if !cfg.DataLock {
		return catalog.Load(cfg.DataFile)
	}
	lockPath := cfg.DataLockPath()
	mu, err := filemutex.New(lockPath)
	if err != nil {
		logutil.WarnfOnce("datalock:"+lockPath, "cannot open data lock %s, loading unlocked: %v", lockPath, err)
		return catalog.Load(cfg.DataFile)
	}
	defer mu.Close()
	logrus.Debugf("acquiring shared lock on %s", lockPath)
	if err := mu.RLock(); err != nil {
		logutil.WarnfOnce("datalock:"+lockPath, "cannot lock %s, loading unlocked: %v", lockPath, err)
		return catalog.Load(cfg.DataFile)
	}
	defer mu.RUnlock()
	return catalog.Load(cfg.DataFile)
}
