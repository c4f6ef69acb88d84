package htmltext_test

import (
	"strings"
	"testing"

	"github.com/portfolio-api/internal/htmltext"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"empty", "", ""},
		{"paragraphs", "<p>Hello</p><p>world</p>", "Hello world"},
		{"inline", "<p>Go <strong>is</strong> fun</p>", "Go is fun"},
		{"script removed", "<p>Visible</p><script>alert(1)</script>", "Visible"},
		{"entities", "<p>Tom &amp; Jerry</p>", "Tom & Jerry"},
		{"plain text", "just   text", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmltext.PlainText(tt.html); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReadingTime(t *testing.T) {
	words := func(n int) string {
		return "<p>" + strings.TrimSpace(strings.Repeat("word ", n)) + "</p>"
	}

	tests := []struct {
		name string
		html string
		want int
	}{
		{"empty is one minute", "", 1},
		{"short", words(10), 1},
		{"exactly 200", words(200), 1},
		{"201 rounds up", words(201), 2},
		{"1000", words(1000), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmltext.ReadingTime(tt.html); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMetaDescription(t *testing.T) {
	if got := htmltext.MetaDescription("Short excerpt", "<p>Body</p>"); got != "Short excerpt" {
		t.Errorf("Expected excerpt, got %q", got)
	}

	long := "<p>" + strings.Repeat("a", 300) + "</p>"
	got := htmltext.MetaDescription("", long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated description, got %q", got)
	}
	if len(got) != htmltext.MetaDescriptionLength+3 {
		t.Errorf("Expected %d chars, got %d", htmltext.MetaDescriptionLength+3, len(got))
	}
}

func TestTruncate(t *testing.T) {
	if got := htmltext.Truncate("héllo", 10); got != "héllo" {
		t.Errorf("Expected unchanged, got %q", got)
	}
	if got := htmltext.Truncate("héllo world", 5); got != "héllo..." {
		t.Errorf("Expected rune-safe cut, got %q", got)
	}
}

func TestSnippet(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"

	got := htmltext.Snippet(text, "FOX", 6)
	if got != "...brown fox jumps..." {
		t.Errorf("Expected context around match, got %q", got)
	}

	got = htmltext.Snippet(text, "the", 4)
	if !strings.HasPrefix(got, "The") {
		t.Errorf("Expected no prefix at start, got %q", got)
	}

	got = htmltext.Snippet(text, "cat", 5)
	if got != "The quick..." {
		t.Errorf("Expected leading text when not found, got %q", got)
	}
}
