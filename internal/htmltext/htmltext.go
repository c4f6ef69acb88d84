// Package htmltext derives plain text facts from article HTML.
package htmltext

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used for reading time estimates
const WordsPerMinute = 200

// MetaDescriptionLength is the rune limit of generated meta descriptions
const MetaDescriptionLength = 160

// PlainText returns the visible text of an HTML fragment with whitespace collapsed
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style, noscript").Remove()
	// Block elements run into each other in Text(); pad them first.
	doc.Find("p, div, br, li, h1, h2, h3, h4, h5, h6, pre, blockquote, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// WordCount counts whitespace separated words in the visible text
func WordCount(html string) int {
	text := PlainText(html)
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// ReadingTime returns the estimated reading time in minutes, at least one
func ReadingTime(html string) int {
	minutes := int(math.Ceil(float64(WordCount(html)) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Truncate shortens s to at most limit runes, appending "..." when cut
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}

// MetaDescription uses the excerpt when present, otherwise the start of the content
func MetaDescription(excerpt, contentHTML string) string {
	if e := strings.TrimSpace(excerpt); e != "" {
		return e
	}
	return Truncate(PlainText(contentHTML), MetaDescriptionLength)
}

// Snippet returns up to radius runes of context on each side of the first
// case-insensitive occurrence of query in text. Without a match it returns
// the start of text.
func Snippet(text, query string, radius int) string {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	q := []rune(strings.ToLower(strings.TrimSpace(query)))

	idx := indexRunes(lower, q)
	if idx < 0 || len(q) == 0 {
		return Truncate(text, radius*2)
	}

	start := idx - radius
	prefix := "..."
	if start <= 0 {
		start = 0
		prefix = ""
	}
	end := idx + len(q) + radius
	suffix := "..."
	if end >= len(runes) {
		end = len(runes)
		suffix = ""
	}
	return prefix + strings.TrimSpace(string(runes[start:end])) + suffix
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
