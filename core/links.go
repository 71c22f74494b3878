package core

import (
	"regexp"
	"strings"
)

const (
	BrokenHost    = "media.discordapp.net"
	CanonicalHost = "cdn.discordapp.com"
)

// The tail stops at any Unicode space, not just the ASCII ones \S knows.
var brokenLinkRegex = regexp.MustCompile(`https?://media\.discordapp\.net/attachments/\d{18,19}/\d{18,19}/[^\s\v\p{Z}\x{85}]*`)

type LinkMatch struct {
	Original string
	Fixed    string
}

// Rewrite returns every broken attachment link in text, in order of
// appearance, together with its cdn form. Repeated links are reported once
// per occurrence.
func Rewrite(text string) []LinkMatch {
	found := brokenLinkRegex.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}

	matches := make([]LinkMatch, 0, len(found))
	for _, link := range found {
		matches = append(matches, LinkMatch{
			Original: link,
			Fixed:    fixLink(link),
		})
	}
	return matches
}

func HasBrokenLink(text string) bool {
	return brokenLinkRegex.MatchString(text)
}

func fixLink(link string) string {
	fixed := strings.Replace(link, "http://", "https://", 1)
	return strings.Replace(fixed, BrokenHost, CanonicalHost, 1)
}
