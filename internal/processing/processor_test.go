package processing_test

import (
	"testing"

	"github.com/mkoval/newsfuse/internal/processing"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases", input: "Hello World", want: "hello world"},
		{name: "strips punctuation", input: "PM's plan, explained.", want: "pms plan explained"},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "unicode letters survive", input: "Привет, мир!", want: "привет мир"},
		{name: "punctuation only", input: "?!...", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := processing.Normalize(tt.input); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := processing.Tokenize("PM announces new policy on trade", 3)
	want := processing.TokenSet{"announces": {}, "policy": {}, "trade": {}}
	require.Equal(t, want, got)
}

func TestTokenizeEmptyAndShort(t *testing.T) {
	require.Empty(t, processing.Tokenize("", 3))
	require.Empty(t, processing.Tokenize("it is so far", 3))
}

func TestTokenizeCountsRunes(t *testing.T) {
	// "мир" is 3 runes but 6 bytes; the length filter must not count bytes.
	got := processing.Tokenize("мир это новости сегодня", 3)
	want := processing.TokenSet{"новости": {}, "сегодня": {}}
	require.Equal(t, want, got)
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		source string
		want   string
	}{
		{name: "plain", title: "Floods hit the coast", source: "AP", want: "Floods hit the coast"},
		{name: "dash suffix", title: "Storm warning issued - Daily Mirror", source: "Daily Mirror", want: "Storm warning issued"},
		{name: "pipe suffix", title: "Markets rally | Reuters", source: "Reuters", want: "Markets rally"},
		{name: "suffix case insensitive", title: "Storm warning - DAILY MIRROR", source: "Daily Mirror", want: "Storm warning"},
		{name: "dash inside headline kept", title: "Election 2024 - what you need to know", source: "Daily Mirror", want: "Election 2024 - what you need to know"},
		{name: "bracketed tag", title: "[Video] Floods hit the coast", source: "AP", want: "Floods hit the coast"},
		{name: "html entities", title: "Johnson &amp; Johnson settles", source: "", want: "Johnson & Johnson settles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := processing.CleanTitle(tt.title, tt.source)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text", input: "Hello world", want: "Hello world"},
		{name: "tags removed", input: "<p>Hello <b>world</b></p>", want: "Hello world"},
		{name: "entities decoded", input: "Fish &amp; Chips", want: "Fish & Chips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := processing.StripHTML(tt.input)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "shorter than max", input: "hello", max: 10, want: "hello"},
		{name: "exact length", input: "hello", max: 5, want: "hello"},
		{name: "cut with ellipsis", input: "hello world", max: 8, want: "hello..."},
		{name: "rune safe cut", input: "дорогой дневник", max: 10, want: "дорогой..."},
		{name: "zero max", input: "hello", max: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := processing.Truncate(tt.input, tt.max)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSlug(t *testing.T) {
	got := processing.Slug("PM announces new policy on trade", 48)
	require.Equal(t, "pm-announces-new-policy-on-trade", got)

	short := processing.Slug("PM announces new policy on trade", 12)
	require.Equal(t, "pm-announces", short)

	trimmed := processing.Slug("big trade", 4)
	require.Equal(t, "big", trimmed)
}

func TestSlugFallbackDeterministic(t *testing.T) {
	first := processing.Slug("?!...", 48)
	second := processing.Slug("?!...", 48)
	require.Len(t, first, 12)
	require.Equal(t, first, second)
}
