// Package text provides query normalization, direct-link classification and
// display truncation for chat messages.
package text

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "si"}
)

// Normalize trims, NFKC-normalizes and collapses whitespace in a raw query.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFKC.String(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// IsDirectLink reports whether a trimmed query is itself a resolvable URL
// rather than a search phrase.
func IsDirectLink(query string) bool {
	return strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://")
}

// CleanURL strips trailing punctuation and tracking query parameters. It
// returns the input unchanged when it does not parse as a URL.
func CleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;")

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Truncate cuts a string to at most budget runes, appending an ellipsis when
// anything was dropped.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget == 1 {
		return "…"
	}
	return string(runes[:budget-1]) + "…"
}
