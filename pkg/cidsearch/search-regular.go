// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cidsearch

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RegularSearcher matches names containing every query word, in order, each as
// a whole word. RE2 has no Unicode-aware \b, so each word is a case-insensitive
// literal regexp and the boundaries are checked here.
type RegularSearcher struct {
	searchTerm string
	words      []*regexp.Regexp
}

// MakeRegularSearcher creates a new regular searcher. A query with no words
// matches every name. Invalid UTF-8 in the query becomes U+FFFD.
func MakeRegularSearcher(searchTerm string) (*RegularSearcher, error) {
	fields := strings.Fields(strings.ToValidUTF8(searchTerm, "\uFFFD"))
	words := make([]*regexp.Regexp, 0, len(fields))
	for _, field := range fields {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(field))
		if err != nil {
			return nil, fmt.Errorf("cannot compile search word %q: %w", field, err)
		}
		words = append(words, re)
	}
	return &RegularSearcher{
		searchTerm: searchTerm,
		words:      words,
	}, nil
}

// Match checks if the words appear in order on one line of name
func (s *RegularSearcher) Match(name string) bool {
	if len(s.words) == 0 {
		return true
	}
	for _, line := range strings.Split(name, "\n") {
		if s.matchLine(line) {
			return true
		}
	}
	return false
}

// the earliest bounded occurrence of each word leaves the most room for the
// words after it, so a greedy left-to-right scan is enough
func (s *RegularSearcher) matchLine(line string) bool {
	pos := 0
	for _, re := range s.words {
		end, ok := findBoundedWord(re, line, pos)
		if !ok {
			return false
		}
		pos = end
	}
	return true
}

func (s *RegularSearcher) GetType() string {
	return SearchModeRegular
}

func findBoundedWord(re *regexp.Regexp, line string, from int) (int, bool) {
	for from <= len(line) {
		loc := re.FindStringIndex(line[from:])
		if loc == nil {
			return 0, false
		}
		start, end := from+loc[0], from+loc[1]
		if isWordBoundary(line, start) && isWordBoundary(line, end) {
			return end, true
		}
		_, size := utf8.DecodeRuneInString(line[start:])
		from = start + max(size, 1)
	}
	return 0, false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isWordBoundary reports whether exactly one side of byte offset pos is a word
// rune. The ends of the string count as non-word.
func isWordBoundary(s string, pos int) bool {
	before, after := false, false
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:pos])
		before = isWordRune(r)
	}
	if pos < len(s) {
		r, _ := utf8.DecodeRuneInString(s[pos:])
		after = isWordRune(r)
	}
	return before != after
}
