package validation

import (
	"strings"
	"testing"

	"github.com/portfolio-api/internal/models"
)

func fields(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func hasField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name       string
		input      *models.SubmitCommentInput
		wantFields []string
	}{
		{
			name:  "valid top-level comment",
			input: &models.SubmitCommentInput{AuthorName: "Ada", Content: "Nice!"},
		},
		{
			name:  "valid reply",
			input: &models.SubmitCommentInput{AuthorName: "Ada", Content: "Agreed", ParentID: strPtr("550e8400-e29b-41d4-a716-446655440000")},
		},
		{
			name:       "missing author and content",
			input:      &models.SubmitCommentInput{AuthorName: "  ", Content: ""},
			wantFields: []string{"author_name", "content"},
		},
		{
			name:       "content too long",
			input:      &models.SubmitCommentInput{AuthorName: "Ada", Content: strings.Repeat("x", MaxCommentLength+1)},
			wantFields: []string{"content"},
		},
		{
			name:       "author name too long",
			input:      &models.SubmitCommentInput{AuthorName: strings.Repeat("a", 256), Content: "hi"},
			wantFields: []string{"author_name"},
		},
		{
			name:       "malformed parent id",
			input:      &models.SubmitCommentInput{AuthorName: "Ada", Content: "hi", ParentID: strPtr("42")},
			wantFields: []string{"parent_id"},
		},
		{
			name:  "empty parent id treated as none",
			input: &models.SubmitCommentInput{AuthorName: "Ada", Content: "hi", ParentID: strPtr("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateComment(tt.input)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantFields), len(errs), fields(errs))
			}
			for _, f := range tt.wantFields {
				if !hasField(errs, f) {
					t.Errorf("Expected error on field %s, got %v", f, fields(errs))
				}
			}
		})
	}
}

func TestValidateReactionKind(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"like", false},
		{"helpful", false},
		{"", true},
		{"love", true},
		{"LIKE", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			errs := ValidateReactionKind(tt.kind)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestValidateArticle(t *testing.T) {
	valid := func() *models.ArticleInput {
		return &models.ArticleInput{Title: "Go Generics", Excerpt: "Intro", Content: "<p>Body</p>"}
	}

	tests := []struct {
		name       string
		mutate     func(*models.ArticleInput)
		wantFields []string
	}{
		{"valid", func(a *models.ArticleInput) {}, nil},
		{"explicit slug", func(a *models.ArticleInput) { a.Slug = "go-generics-2" }, nil},
		{"bad slug", func(a *models.ArticleInput) { a.Slug = "Go Generics" }, []string{"slug"}},
		{"missing title", func(a *models.ArticleInput) { a.Title = "" }, []string{"title"}},
		{"excerpt too long", func(a *models.ArticleInput) { a.Excerpt = strings.Repeat("e", 501) }, []string{"excerpt"}},
		{"missing content", func(a *models.ArticleInput) { a.Content = " " }, []string{"content"}},
		{"series order zero", func(a *models.ArticleInput) { a.SeriesOrder = intPtr(0) }, []string{"series_order"}},
		{"long tag", func(a *models.ArticleInput) { a.Tags = []string{"go", strings.Repeat("t", 51)} }, []string{"tags.1"}},
		{"empty tag", func(a *models.ArticleInput) { a.Tags = []string{""} }, []string{"tags.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(in)
			errs := ValidateArticle(in)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %v", len(tt.wantFields), fields(errs))
			}
			for _, f := range tt.wantFields {
				if !hasField(errs, f) {
					t.Errorf("Expected error on %s, got %v", f, fields(errs))
				}
			}
		})
	}
}

func TestValidateContentRecords(t *testing.T) {
	if errs := ValidateProject(&models.ProjectInput{Title: "CLI", Description: "Tool", Link: "https://example.com"}); len(errs) != 0 {
		t.Errorf("Expected valid project, got %v", fields(errs))
	}
	if errs := ValidateProject(&models.ProjectInput{Title: "CLI", Description: "Tool", Link: "example.com"}); !hasField(errs, "link") {
		t.Errorf("Expected link error, got %v", fields(errs))
	}
	if errs := ValidateSkill(&models.SkillInput{Name: "Backend", Icon: "server"}); !hasField(errs, "items") {
		t.Errorf("Expected items error, got %v", fields(errs))
	}
	if errs := ValidateExperience(&models.ExperienceInput{Role: "Engineer", Company: "Acme"}); len(errs) != 2 {
		t.Errorf("Expected period and description errors, got %v", fields(errs))
	}
	if errs := ValidateTestimonial(&models.TestimonialInput{Name: "B", Role: "CTO", Company: "Acme", Content: "Great", Rating: intPtr(6)}); !hasField(errs, "rating") {
		t.Errorf("Expected rating error, got %v", fields(errs))
	}
	if errs := ValidateTestimonial(&models.TestimonialInput{Name: "B", Role: "CTO", Company: "Acme", Content: "Great"}); len(errs) != 0 {
		t.Errorf("Expected nil rating to be valid, got %v", fields(errs))
	}
}

func TestValidateSubscribeAndContact(t *testing.T) {
	tests := []struct {
		name  string
		errs  []ValidationError
		field string
	}{
		{"subscribe missing email", ValidateSubscribe(&models.SubscribeInput{}), "email"},
		{"subscribe invalid email", ValidateSubscribe(&models.SubscribeInput{Email: "nope"}), "email"},
		{"contact invalid email", ValidateContact(&models.ContactInput{Name: "A", Email: "a@", Subject: "s", Message: "m"}), "email"},
		{"contact missing message", ValidateContact(&models.ContactInput{Name: "A", Email: "a@b.co", Subject: "s"}), "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !hasField(tt.errs, tt.field) {
				t.Errorf("Expected error on %s, got %v", tt.field, fields(tt.errs))
			}
		})
	}

	if errs := ValidateContact(&models.ContactInput{Name: "A", Email: "a@b.co", Subject: "s", Message: "m"}); len(errs) != 0 {
		t.Errorf("Expected valid contact, got %v", fields(errs))
	}
}

func TestValidateSearch(t *testing.T) {
	if errs := ValidateSearch("golang", ""); len(errs) != 0 {
		t.Errorf("Expected empty type to be valid, got %v", fields(errs))
	}
	if errs := ValidateSearch("golang", "people"); !hasField(errs, "type") {
		t.Errorf("Expected type error, got %v", fields(errs))
	}
	if errs := ValidateSearch(strings.Repeat("q", 256), "all"); !hasField(errs, "q") {
		t.Errorf("Expected q error, got %v", fields(errs))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Go 1.23 Release Notes  ", "go-1-23-release-notes"},
		{"Café crème", "cafe-creme"},
		{"already-a-slug", "already-a-slug"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if got != "" && !IsValidSlug(got) {
				t.Errorf("Expected %q to be a valid slug", got)
			}
		})
	}
}
