// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the immutable code -> name table served by cidsrv.
package catalog

import (
	"errors"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

var ErrNotFound = errors.New("code not found")

type Entry struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Catalog is read-only after New returns and is safe for concurrent use.
type Catalog struct {
	entries []Entry
	index   *linkedhashmap.Map // uppercased code -> name, first-insertion order
}

// New builds a catalog from entries in source order. Codes are uppercased.
// When a code repeats, the last name wins and the code keeps the position of
// its first occurrence.
func New(entries []Entry) *Catalog {
	cat := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   linkedhashmap.New(),
	}
	for _, e := range entries {
		e.Code = NormalizeCode(e.Code)
		cat.entries = append(cat.entries, e)
		cat.index.Put(e.Code, e.Name)
	}
	return cat
}

// NormalizeCode case-folds a code for storage and lookup. No trimming is done.
func NormalizeCode(code string) string {
	return strings.ToUpper(code)
}

// List returns every source record in load order, duplicates included.
func (c *Catalog) List() []Entry {
	rtn := make([]Entry, len(c.entries))
	copy(rtn, c.entries)
	return rtn
}

func (c *Catalog) Lookup(code string) (Entry, error) {
	code = NormalizeCode(code)
	name, found := c.index.Get(code)
	if !found {
		return Entry{}, ErrNotFound
	}
	return Entry{Code: code, Name: name.(string)}, nil
}

// Each calls fn for every distinct code in insertion order.
func (c *Catalog) Each(fn func(Entry)) {
	c.index.Each(func(key interface{}, value interface{}) {
		fn(Entry{Code: key.(string), Name: value.(string)})
	})
}

// Len returns the number of source records.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Size returns the number of distinct codes.
func (c *Catalog) Size() int {
	return c.index.Size()
}
