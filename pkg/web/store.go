// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"sync/atomic"
	"time"

	"github.com/cidsrv/cidsrv/pkg/catalog"
)

type CatalogSnapshot struct {
	Catalog  *catalog.Catalog
	LoadedAt time.Time
}

// CatalogStore holds the catalog being served. Swap replaces it as a whole, so
// a request sees either the old or the new catalog, never a mix.
type CatalogStore struct {
	cur atomic.Pointer[CatalogSnapshot]
}

func MakeCatalogStore(cat *catalog.Catalog) *CatalogStore {
	store := &CatalogStore{}
	store.Swap(cat)
	return store
}

func (s *CatalogStore) Swap(cat *catalog.Catalog) {
	s.cur.Store(&CatalogSnapshot{Catalog: cat, LoadedAt: time.Now()})
}

func (s *CatalogStore) Snapshot() *CatalogSnapshot {
	return s.cur.Load()
}

func (s *CatalogStore) Catalog() *catalog.Catalog {
	return s.cur.Load().Catalog
}
