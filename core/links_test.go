package core

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
)

const (
	brokenLink = "http://media.discordapp.net/attachments/123456789012345678/987654321098765432/img.png"
	fixedLink  = "https://cdn.discordapp.com/attachments/123456789012345678/987654321098765432/img.png"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []LinkMatch
	}{
		{
			name:     "Single http link inside text",
			input:    "check " + brokenLink,
			expected: []LinkMatch{{Original: brokenLink, Fixed: fixedLink}},
		},
		{
			name:  "Https link keeps scheme",
			input: "https://media.discordapp.net/attachments/1234567890123456789/9876543210987654321/clip.mp4 lol",
			expected: []LinkMatch{{
				Original: "https://media.discordapp.net/attachments/1234567890123456789/9876543210987654321/clip.mp4",
				Fixed:    "https://cdn.discordapp.com/attachments/1234567890123456789/9876543210987654321/clip.mp4",
			}},
		},
		{
			name:  "Duplicates are rewritten independently",
			input: brokenLink + " and again " + brokenLink,
			expected: []LinkMatch{
				{Original: brokenLink, Fixed: fixedLink},
				{Original: brokenLink, Fixed: fixedLink},
			},
		},
		{
			name:  "Distinct links keep their order",
			input: "a https://media.discordapp.net/attachments/111111111111111111/222222222222222222/b.gif\n" + brokenLink,
			expected: []LinkMatch{
				{
					Original: "https://media.discordapp.net/attachments/111111111111111111/222222222222222222/b.gif",
					Fixed:    "https://cdn.discordapp.com/attachments/111111111111111111/222222222222222222/b.gif",
				},
				{Original: brokenLink, Fixed: fixedLink},
			},
		},
		{
			name:  "Only the first host occurrence is replaced",
			input: "http://media.discordapp.net/attachments/123456789012345678/987654321098765432/media.discordapp.net.png",
			expected: []LinkMatch{{
				Original: "http://media.discordapp.net/attachments/123456789012345678/987654321098765432/media.discordapp.net.png",
				Fixed:    "https://cdn.discordapp.com/attachments/123456789012345678/987654321098765432/media.discordapp.net.png",
			}},
		},
		{
			name:     "No-break space ends the link",
			input:    brokenLink + "\u00a0nice",
			expected: []LinkMatch{{Original: brokenLink, Fixed: fixedLink}},
		},
		{
			name:     "Ideographic space ends the link",
			input:    brokenLink + "\u3000すごい",
			expected: []LinkMatch{{Original: brokenLink, Fixed: fixedLink}},
		},
		{
			name:     "Vertical tab ends the link",
			input:    brokenLink + "\vnext",
			expected: []LinkMatch{{Original: brokenLink, Fixed: fixedLink}},
		},
		{
			name:     "Next line ends the link",
			input:    brokenLink + "\u0085next",
			expected: []LinkMatch{{Original: brokenLink, Fixed: fixedLink}},
		},
		{
			name:     "Snowflake too short",
			input:    "http://media.discordapp.net/attachments/12345678901234567/987654321098765432/img.png",
			expected: nil,
		},
		{
			name:     "Snowflake too long",
			input:    "http://media.discordapp.net/attachments/12345678901234567890/987654321098765432/img.png",
			expected: nil,
		},
		{
			name:     "Already canonical",
			input:    fixedLink,
			expected: nil,
		},
		{
			name:     "Other host",
			input:    "https://example.com/attachments/123456789012345678/987654321098765432/img.png",
			expected: nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.expected, Rewrite(tt.input))
			req.Equal(len(tt.expected) > 0, HasBrokenLink(tt.input))
		})
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	req := require.New(t)

	inputs := []string{
		"check " + brokenLink,
		brokenLink + " " + brokenLink,
		"https://media.discordapp.net/attachments/1234567890123456789/9876543210987654321/a b",
	}
	for _, input := range inputs {
		matches := Rewrite(input)
		req.NotEmpty(matches)
		for _, m := range matches {
			req.Empty(Rewrite(m.Fixed), "rewriting %q again should find nothing", m.Fixed)
		}
	}
}

func TestRewrite_MatchesSatisfyPattern(t *testing.T) {
	req := require.New(t)

	input := "x " + brokenLink + "\u00a0y https://media.discordapp.net/attachments/123456789012345678/123456789012345678/\u2003z"
	matches := Rewrite(input)
	req.Len(matches, 2)
	for _, m := range matches {
		req.False(strings.ContainsFunc(m.Original, unicode.IsSpace), "match %q contains whitespace", m.Original)
		req.True(brokenLinkRegex.MatchString(m.Original))
		req.Contains(input, m.Original)
		req.Contains(m.Fixed, CanonicalHost)
		req.NotContains(m.Fixed, BrokenHost+"/attachments")
	}
}
