// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cidsearch matches free-text queries against catalog names.
package cidsearch

import (
	"errors"
	"fmt"

	"github.com/cidsrv/cidsrv/pkg/catalog"
)

const (
	SearchModeFlexible = "flexible"
	SearchModeRegular  = "regular"
)

// DefaultThreshold is the minimum token set ratio for a flexible match.
const DefaultThreshold = 80

var ErrInvalidMode = errors.New("invalid search mode")

type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid search mode %q (want %q or %q)", e.Mode, SearchModeFlexible, SearchModeRegular)
}

func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

// NameSearcher defines the interface for the name matching strategies
type NameSearcher interface {
	// Match checks if a catalog name matches the search criteria
	Match(name string) bool

	// GetType returns the search mode identifier
	GetType() string
}

// GetSearcher returns the searcher for mode. There is no fallback mode.
func GetSearcher(mode string, query string) (NameSearcher, error) {
	switch mode {
	case SearchModeFlexible:
		return MakeFlexibleSearcher(query, DefaultThreshold), nil
	case SearchModeRegular:
		searcher, err := MakeRegularSearcher(query)
		if err != nil {
			return nil, err
		}
		return searcher, nil
	default:
		return nil, &InvalidModeError{Mode: mode}
	}
}

// Search returns the catalog entries whose names match query under mode, in
// catalog order. No matches gives an empty, non-nil slice.
func Search(cat *catalog.Catalog, query string, mode string) ([]catalog.Entry, error) {
	searcher, err := GetSearcher(mode, query)
	if err != nil {
		return nil, err
	}
	return Filter(cat, searcher), nil
}

func Filter(cat *catalog.Catalog, searcher NameSearcher) []catalog.Entry {
	rtn := make([]catalog.Entry, 0)
	cat.Each(func(e catalog.Entry) {
		if searcher.Match(e.Name) {
			rtn = append(rtn, e)
		}
	})
	return rtn
}
