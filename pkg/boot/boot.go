// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package boot

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/cidsrv/cidsrv/pkg/config"
	"github.com/cidsrv/cidsrv/pkg/serverbase"
	"github.com/cidsrv/cidsrv/pkg/web"
	"github.com/sirupsen/logrus"
)

// RunServer loads the catalog and serves it until SIGINT or SIGTERM.
// SIGHUP reloads the data file.
func RunServer(cfg *config.Config) error {
	// Create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalChan)

	reloadCh := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-signalChan:
				if sig == syscall.SIGHUP {
					select {
					case reloadCh <- struct{}{}:
					default: // a reload is already pending
					}
					continue
				}
				logrus.Infof("Received signal: %v", sig)
				cancel()
				return
			}
		}
	}()

	listener, err := web.MakeTCPListener("cidsrv", cfg.ListenAddr())
	if err != nil {
		return err
	}
	return Serve(ctx, cfg, listener, reloadCh)
}

// Serve loads the catalog, then serves it on listener until ctx is canceled.
// Each value on reloadCh reloads the data file; a failed reload keeps the
// current catalog.
func Serve(ctx context.Context, cfg *config.Config, listener net.Listener, reloadCh <-chan struct{}) error {
	cat, err := LoadCatalog(cfg)
	if err != nil {
		listener.Close()
		return fmt.Errorf("cannot load catalog: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"file":    cfg.DataFile,
		"records": cat.Len(),
		"codes":   cat.Size(),
	}).Info("catalog loaded")

	store := web.MakeCatalogStore(cat)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reloadCh:
				ReloadCatalog(cfg, store)
			}
		}
	}()

	logrus.WithField("version", serverbase.VersionString()).Infof("cidsrv serving on %s", listener.Addr())
	err = web.RunWebServer(ctx, listener, web.MakeHandler(store, cfg.Dev))
	if err != nil {
		return fmt.Errorf("error running web server: %w", err)
	}
	logrus.Info("Server shutdown complete")
	return nil
}

// ReloadCatalog swaps in a freshly loaded catalog. On failure the store is
// left untouched.
func ReloadCatalog(cfg *config.Config, store *web.CatalogStore) error {
	cat, err := LoadCatalog(cfg)
	if err != nil {
		logrus.WithError(err).Error("catalog reload failed, keeping the current catalog")
		return err
	}
	store.Swap(cat)
	logrus.WithFields(logrus.Fields{
		"file":    cfg.DataFile,
		"records": cat.Len(),
		"codes":   cat.Size(),
	}).Info("catalog reloaded")
	return nil
}
