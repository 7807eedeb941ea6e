// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cidsearch

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ProcessString folds accents, lowercases and turns every rune that is not a
// letter or a number into a space. The result is trimmed.
func ProcessString(s string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		folded = s
	}
	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(ProcessString(s)) {
		set[tok] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	rtn := make([]string, 0, len(set))
	for k := range set {
		rtn = append(rtn, k)
	}
	sort.Strings(rtn)
	return rtn
}

// TokenSetRatio scores a and b in [0, 100], ignoring word order and repeated
// words. Either side without tokens scores 0. A non-empty shared token set where
// one side has no extra tokens scores 100.
func TokenSetRatio(a, b string) int {
	return scoreTokenSets(tokenSet(a), tokenSet(b))
}

func scoreTokenSets(tokensA, tokensB map[string]struct{}) int {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	intersect := make(map[string]struct{})
	diffAB := make(map[string]struct{})
	diffBA := make(map[string]struct{})
	for tok := range tokensA {
		if _, ok := tokensB[tok]; ok {
			intersect[tok] = struct{}{}
		} else {
			diffAB[tok] = struct{}{}
		}
	}
	for tok := range tokensB {
		if _, ok := tokensA[tok]; !ok {
			diffBA[tok] = struct{}{}
		}
	}
	if len(intersect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sect := []rune(strings.Join(sortedKeys(intersect), " "))
	ab := []rune(strings.Join(sortedKeys(diffAB), " "))
	ba := []rune(strings.Join(sortedKeys(diffBA), " "))

	// sect+" "+ab and sect+" "+ba share the sect prefix, so their indel
	// distance is the distance between the remainders
	sep := 0
	if len(sect) > 0 {
		sep = 1
	}
	sectABLen := len(sect) + sep + len(ab)
	sectBALen := len(sect) + sep + len(ba)
	best := normScore(indelDistance(ab, ba), sectABLen+sectBALen)
	if len(sect) == 0 {
		return roundScore(best)
	}
	// sect vs sect+" "+ab differ only by the appended remainder
	best = math.Max(best, normScore(sep+len(ab), len(sect)+sectABLen))
	best = math.Max(best, normScore(sep+len(ba), len(sect)+sectBALen))
	return roundScore(best)
}

// IsSimilar reports whether TokenSetRatio(a, b) reaches threshold.
func IsSimilar(a, b string, threshold int) bool {
	return TokenSetRatio(a, b) >= threshold
}

func normScore(dist int, lenSum int) float64 {
	if lenSum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lenSum)
}

func roundScore(score float64) int {
	return int(math.RoundToEven(score))
}

// indelDistance counts the insertions and deletions turning a into b.
func indelDistance(a, b []rune) int {
	return len(a) + len(b) - 2*lcsLength(a, b)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(curr[j-1], prev[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
