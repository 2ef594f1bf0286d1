// Package fuzzy cleans noisy media titles before they are re-fed into a
// catalog search.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]?\s*`)
	bracketRegex    = regexp.MustCompile(`(?i)[\(\[][^\)\]]*(official|video|lyrics|audio|hd|4k|mv)[^\)\]]*[\)\]]`)
	hashtagRegex    = regexp.MustCompile(`#\S+`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTitle strips uploader decorations from a video title so it works
// as a song search query: feat credits, "(Official Video)" style brackets,
// hashtags, diacritics and stray punctuation.
func (n *Normalizer) NormalizeTitle(title string) string {
	title = featRegex.ReplaceAllString(title, " ")
	title = bracketRegex.ReplaceAllString(title, " ")
	title = hashtagRegex.ReplaceAllString(title, " ")

	return n.basicNormalize(title)
}

func (n *Normalizer) basicNormalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	return strings.TrimSpace(text)
}
