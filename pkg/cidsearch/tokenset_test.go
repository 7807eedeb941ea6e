// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package cidsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Empty string", input: "", want: ""},
		{name: "Lowercase", input: "Febre TIFOIDE", want: "febre tifoide"},
		{name: "Accents folded", input: "Cólera, Infecção", want: "colera  infeccao"},
		{name: "Punctuation to spaces", input: "(A01.1) febre-paratifoide", want: "a01 1  febre paratifoide"},
		{name: "Only punctuation", input: " ... ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcessString(tt.input))
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "Identical", a: "Febre Tifoide", b: "Febre Tifoide", want: 100},
		{name: "Case and order", a: "tifoide FEBRE", b: "Febre Tifoide", want: 100},
		{name: "Repeated words", a: "febre febre tifoide", b: "Febre Tifoide", want: 100},
		{name: "Subset", a: "febre", b: "Febre Tifoide", want: 100},
		{name: "Superset", a: "Enterite por Salmonella", b: "salmonella", want: 100},
		{name: "Accent insensitive", a: "colera", b: "Cólera", want: 100},
		{name: "Shared word with different remainders", a: "Febre Tifoide", b: "Febre Amarela", want: 56},
		{name: "Typo", a: "colera", b: "cholera", want: 92},
		{name: "Empty query", a: "", b: "Febre Tifoide", want: 0},
		{name: "Both empty", a: "", b: "", want: 0},
		{name: "Punctuation only", a: "?!", b: "?!", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSetRatio(tt.a, tt.b))
			assert.Equal(t, tt.want, TokenSetRatio(tt.b, tt.a), "ratio should be symmetric")
		})
	}
}

func TestTokenSetRatioDisjoint(t *testing.T) {
	pairs := [][2]string{
		{"febre", "Enterite por Salmonella"},
		{"diabetes", "Fratura do femur"},
		{"tuberculose pulmonar", "Hipertensao essencial"},
	}
	for _, pair := range pairs {
		score := TokenSetRatio(pair[0], pair[1])
		assert.Less(t, score, DefaultThreshold, "%q vs %q scored %d", pair[0], pair[1], score)
		assert.False(t, IsSimilar(pair[0], pair[1], DefaultThreshold))
	}
}

func TestTokenSetRatioRange(t *testing.T) {
	inputs := []string{"", "a", "febre", "Febre Tifoide", "Enterite por Salmonella", "x y z", "ção", "A01.1"}
	for _, a := range inputs {
		for _, b := range inputs {
			score := TokenSetRatio(a, b)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestIsSimilarThreshold(t *testing.T) {
	assert.True(t, IsSimilar("Febre Tifoide", "Febre Amarela", 56))
	assert.False(t, IsSimilar("Febre Tifoide", "Febre Amarela", 57))
	assert.True(t, IsSimilar("", "anything", 0))
}

func TestLcsLength(t *testing.T) {
	assert.Equal(t, 0, lcsLength([]rune(""), []rune("abc")))
	assert.Equal(t, 1, lcsLength([]rune("tifoide"), []rune("amarela")))
	assert.Equal(t, 6, lcsLength([]rune("colera"), []rune("cholera")))
	assert.Equal(t, 1, indelDistance([]rune("colera"), []rune("cholera")))
}
