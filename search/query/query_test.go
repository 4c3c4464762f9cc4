package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "too short", raw: "ab", want: nil},
		{name: "too short after trim", raw: "  ab  ", want: nil},
		{name: "multibyte counts characters", raw: "äö", want: nil},
		{name: "minimum length", raw: "abc", want: []string{"abc"}},
		{name: "splits on whitespace", raw: "alpha  beta\tgamma", want: []string{"alpha", "beta", "gamma"}},
		{name: "drops trailing AND", raw: "alpha beta AND", want: []string{"alpha", "beta"}},
		{name: "drops trailing OR", raw: "alpha OR", want: []string{"alpha"}},
		{name: "drops repeated trailing connectors", raw: "alpha OR AND", want: []string{"alpha"}},
		{name: "keeps words ending in a connector", raw: "BRAND", want: []string{"BRAND"}},
		{name: "only connectors", raw: "AND OR", want: nil},
		{name: "lowercase connectors are terms", raw: "alpha and", want: []string{"alpha", "and"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.raw))
		})
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		title  string
		text   string
		terms  []string
	}{
		{
			name:   "single term",
			tokens: []string{"alpha"},
			title:  "(ZTITLE like '%alpha%')",
			text:   "(ZTEXT like '%alpha%')",
			terms:  []string{"alpha"},
		},
		{
			name:   "terms default to OR",
			tokens: []string{"alpha", "beta"},
			title:  "(ZTITLE like '%alpha%') OR (ZTITLE like '%beta%')",
			text:   "(ZTEXT like '%alpha%') OR (ZTEXT like '%beta%')",
			terms:  []string{"alpha", "beta"},
		},
		{
			name:   "leading AND sets the filter",
			tokens: []string{"AND", "alpha", "beta"},
			title:  "(ZTITLE like '%alpha%') AND (ZTITLE like '%beta%')",
			text:   "(ZTEXT like '%alpha%') AND (ZTEXT like '%beta%')",
			terms:  []string{"alpha", "beta"},
		},
		{
			name:   "connector opens a group",
			tokens: []string{"alpha", "OR", "beta", "gamma"},
			title:  "(ZTITLE like '%alpha%') OR (ZTITLE like '%beta%' OR ZTITLE like '%gamma%')",
			text:   "(ZTEXT like '%alpha%') OR (ZTEXT like '%beta%' OR ZTEXT like '%gamma%')",
			terms:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:   "group joins with its own connector",
			tokens: []string{"alpha", "AND", "beta", "gamma"},
			title:  "(ZTITLE like '%alpha%') AND (ZTITLE like '%beta%' AND ZTITLE like '%gamma%')",
			text:   "(ZTEXT like '%alpha%') AND (ZTEXT like '%beta%' AND ZTEXT like '%gamma%')",
			terms:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:   "consecutive groups",
			tokens: []string{"alpha", "AND", "beta", "gamma", "OR", "delta"},
			title:  "(ZTITLE like '%alpha%') AND (ZTITLE like '%beta%' AND ZTITLE like '%gamma%') OR (ZTITLE like '%delta%')",
			text:   "(ZTEXT like '%alpha%') AND (ZTEXT like '%beta%' AND ZTEXT like '%gamma%') OR (ZTEXT like '%delta%')",
			terms:  []string{"alpha", "beta", "gamma", "delta"},
		},
		{
			name:   "group directly after the leading connector",
			tokens: []string{"AND", "OR", "alpha", "beta"},
			title:  "(ZTITLE like '%alpha%' OR ZTITLE like '%beta%')",
			text:   "(ZTEXT like '%alpha%' OR ZTEXT like '%beta%')",
			terms:  []string{"alpha", "beta"},
		},
		{
			name:   "empty group is dropped",
			tokens: []string{"alpha", "AND", "OR", "beta"},
			title:  "(ZTITLE like '%alpha%') OR (ZTITLE like '%beta%')",
			text:   "(ZTEXT like '%alpha%') OR (ZTEXT like '%beta%')",
			terms:  []string{"alpha", "beta"},
		},
		{
			name:   "empty tokens are skipped",
			tokens: []string{"alpha", "", "beta"},
			title:  "(ZTITLE like '%alpha%') OR (ZTITLE like '%beta%')",
			text:   "(ZTEXT like '%alpha%') OR (ZTEXT like '%beta%')",
			terms:  []string{"alpha", "beta"},
		},
		{
			name:   "duplicates are kept",
			tokens: []string{"alpha", "alpha"},
			title:  "(ZTITLE like '%alpha%') OR (ZTITLE like '%alpha%')",
			text:   "(ZTEXT like '%alpha%') OR (ZTEXT like '%alpha%')",
			terms:  []string{"alpha", "alpha"},
		},
		{
			name:   "wildcards pass through and quotes are doubled",
			tokens: []string{"50%", "it's"},
			title:  "(ZTITLE like '%50%%') OR (ZTITLE like '%it''s%')",
			text:   "(ZTEXT like '%50%%') OR (ZTEXT like '%it''s%')",
			terms:  []string{"50%", "it's"},
		},
		{
			name:   "only connectors",
			tokens: []string{"AND", "OR"},
			title:  "",
			text:   "",
			terms:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.tokens)
			assert.Equal(t, tt.title, p.Title)
			assert.Equal(t, tt.text, p.Text)
			assert.Equal(t, tt.terms, p.Terms)
		})
	}
}

func TestCompileProperties(t *testing.T) {
	queries := []string{
		"alpha",
		"alpha beta gamma",
		"AND alpha beta",
		"OR alpha AND beta gamma OR delta",
		"alpha OR beta AND gamma delta OR epsilon zeta",
		"AND OR AND alpha",
		"alpha AND OR AND beta",
	}

	for _, raw := range queries {
		t.Run(raw, func(t *testing.T) {
			tokens := Tokenize(raw)
			require.NotEmpty(t, tokens)

			p := Compile(tokens)

			t.Run("parentheses balance", func(t *testing.T) {
				assert.Equal(t, strings.Count(p.Title, "("), strings.Count(p.Title, ")"))
				assert.Equal(t, strings.Count(p.Text, "("), strings.Count(p.Text, ")"))
			})

			t.Run("idempotent", func(t *testing.T) {
				assert.Equal(t, p, Compile(tokens))
			})

			t.Run("no dangling connector", func(t *testing.T) {
				for _, c := range []string{And, Or} {
					assert.False(t, strings.HasSuffix(p.Title, c))
					assert.False(t, strings.HasPrefix(p.Title, c))
					assert.False(t, strings.HasSuffix(p.Text, c))
				}
			})

			t.Run("connectors are not terms", func(t *testing.T) {
				assert.NotContains(t, p.Terms, And)
				assert.NotContains(t, p.Terms, Or)
			})
		})
	}
}

func TestCompileDoesNotMutateTokens(t *testing.T) {
	tokens := []string{"AND", "alpha", "beta"}
	Compile(tokens)
	assert.Equal(t, []string{"AND", "alpha", "beta"}, tokens)
}

func TestPredicateEmpty(t *testing.T) {
	assert.True(t, Compile([]string{"OR"}).Empty())
	assert.False(t, Compile([]string{"alpha"}).Empty())
}
