// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cidsearch

// FlexibleSearcher implements approximate matching with the token set ratio
type FlexibleSearcher struct {
	searchTerm  string
	queryTokens map[string]struct{}
	threshold   int
}

// MakeFlexibleSearcher creates a new flexible searcher. The query is tokenized
// once here rather than per name.
func MakeFlexibleSearcher(searchTerm string, threshold int) *FlexibleSearcher {
	return &FlexibleSearcher{
		searchTerm:  searchTerm,
		queryTokens: tokenSet(searchTerm),
		threshold:   threshold,
	}
}

// Match checks if the name scores at least the threshold against the query
func (s *FlexibleSearcher) Match(name string) bool {
	return s.Score(name) >= s.threshold
}

// Score returns the token set ratio between name and the query
func (s *FlexibleSearcher) Score(name string) int {
	return scoreTokenSets(tokenSet(name), s.queryTokens)
}

func (s *FlexibleSearcher) GetType() string {
	return SearchModeFlexible
}
