package moderation_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"askboard/internal/moderation"
)

func TestSanitizeQuestion(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"trims surrounding whitespace":       {in: "  hello there  ", want: "hello there"},
		"empty input":                        {in: "", want: ""},
		"whitespace only":                    {in: " \t \r\n ", want: ""},
		"strips NUL bytes":                   {in: "he\x00llo", want: "hello"},
		"normalizes CRLF":                    {in: "line one\r\nline two", want: "line one\nline two"},
		"normalizes bare CR":                 {in: "line one\rline two", want: "line one\nline two"},
		"collapses runs of 3+ whitespace":    {in: "a    b", want: "a  b"},
		"keeps runs of 2 whitespace":         {in: "a  b", want: "a  b"},
		"collapses mixed whitespace runs":    {in: "a \t\n b", want: "a  b"},
		"collapse applies after trim":        {in: "    a    b    ", want: "a  b"},
		"single spaces pass through":         {in: "what about latency?", want: "what about latency?"},
		"whitespace around NUL still counts": {in: "\x00 \x00", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.want, moderation.SanitizeQuestion(tt.in))
		})
	}
}

func TestSanitizeAlias(t *testing.T) {
	require.Equal(t, "Ada", moderation.SanitizeAlias(" <Ada> "))
	require.Equal(t, "scriptAda/script", moderation.SanitizeAlias("<script>Ada</script>"))
	require.Len(t, moderation.SanitizeAlias(strings.Repeat("a", 80)), 50)
	require.Equal(t, "", moderation.SanitizeAlias("  "))

	t.Run("caps by characters without splitting runes", func(t *testing.T) {
		got := moderation.SanitizeAlias(strings.Repeat("é", 60))
		require.Equal(t, 50, utf8.RuneCountInString(got))
		require.True(t, utf8.ValidString(got))
	})
}

func TestSanitizeSessionName(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain name":           {in: "Weekly Standup", want: "Weekly Standup"},
		"strips markup chars":  {in: "Ask <Me> Anything", want: "Ask Me Anything"},
		"strips CR and LF":     {in: "line\r\nbreak", want: "linebreak"},
		"trims":                {in: "   padded   ", want: "padded"},
		"empty stays empty":    {in: "", want: ""},
		"angle brackets only":  {in: "<><>", want: ""},
		"truncates at 60":      {in: strings.Repeat("x", 75), want: strings.Repeat("x", 60)},
		"trims after truncate": {in: strings.Repeat("y", 59) + "  tail", want: strings.Repeat("y", 59)},
		"counts characters":    {in: "x" + strings.Repeat("é", 70), want: "x" + strings.Repeat("é", 59)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := moderation.SanitizeSessionName(tt.in)
			require.Equal(t, tt.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}
