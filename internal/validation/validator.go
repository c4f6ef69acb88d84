package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/models"
	"golang.org/x/text/unicode/norm"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Field length limits
const (
	MaxStringLength  = 255
	MaxExcerptLength = 500
	MaxTagLength     = 50
	MaxCommentLength = 5000
	MaxMessageLength = 5000
)

// ValidationError represents a single field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateComment validates a public comment submission. Parent existence is
// checked by the caller because it needs the store.
func ValidateComment(in *models.SubmitCommentInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "author_name", in.AuthorName, MaxStringLength)
	errors = appendRequired(errors, "content", in.Content, MaxCommentLength)

	if in.ParentID != nil && *in.ParentID != "" && !IsValidUUID(*in.ParentID) {
		errors = append(errors, ValidationError{Field: "parent_id", Message: "invalid UUID format", Value: *in.ParentID})
	}

	return errors
}

// ValidateReactionKind validates the reaction_type value
func ValidateReactionKind(kind string) []ValidationError {
	if kind == "" {
		return []ValidationError{{Field: "reaction_type", Message: "reaction_type is required"}}
	}
	if !models.ReactionKind(kind).Valid() {
		return []ValidationError{{Field: "reaction_type", Message: "reaction_type must be one of: like, helpful", Value: kind}}
	}
	return nil
}

// ValidateArticle validates an admin article payload
func ValidateArticle(in *models.ArticleInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "title", in.Title, MaxStringLength)
	errors = appendRequired(errors, "excerpt", in.Excerpt, MaxExcerptLength)
	if strings.TrimSpace(in.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	if in.Slug != "" {
		if !slugRegex.MatchString(in.Slug) {
			errors = append(errors, ValidationError{Field: "slug", Message: "slug must be kebab-case (lowercase letters, numbers, hyphens)", Value: in.Slug})
		} else if len(in.Slug) > MaxStringLength {
			errors = append(errors, tooLong("slug", MaxStringLength))
		}
	}

	errors = appendOptional(errors, "category", in.Category, MaxStringLength)
	errors = appendOptional(errors, "series", in.Series, MaxStringLength)
	errors = appendOptional(errors, "featured_image", in.FeaturedImage, 500)

	if in.SeriesOrder != nil && *in.SeriesOrder < 1 {
		errors = append(errors, ValidationError{Field: "series_order", Message: "series_order must be at least 1", Value: *in.SeriesOrder})
	}

	for i, tag := range in.Tags {
		field := fmt.Sprintf("tags.%d", i)
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{Field: field, Message: "tag must not be empty"})
		} else if utf8.RuneCountInString(tag) > MaxTagLength {
			errors = append(errors, tooLong(field, MaxTagLength))
		}
	}

	return errors
}

// ValidateProject validates an admin project payload
func ValidateProject(in *models.ProjectInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "title", in.Title, MaxStringLength)
	if strings.TrimSpace(in.Description) == "" {
		errors = append(errors, ValidationError{Field: "description", Message: "description is required"})
	}
	if in.Link != "" && !IsValidURL(in.Link) {
		errors = append(errors, ValidationError{Field: "link", Message: "link must be an absolute http(s) URL", Value: in.Link})
	}
	for i, tag := range in.Tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("tags.%d", i), Message: "tag must not be empty"})
		}
	}

	return errors
}

// ValidateSkill validates an admin skill payload
func ValidateSkill(in *models.SkillInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "name", in.Name, MaxStringLength)
	errors = appendRequired(errors, "icon", in.Icon, MaxStringLength)
	if len(in.Items) == 0 {
		errors = append(errors, ValidationError{Field: "items", Message: "items is required"})
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item) == "" {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("items.%d", i), Message: "item must not be empty"})
		}
	}

	return errors
}

// ValidateExperience validates an admin experience payload
func ValidateExperience(in *models.ExperienceInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "role", in.Role, MaxStringLength)
	errors = appendRequired(errors, "company", in.Company, MaxStringLength)
	errors = appendRequired(errors, "period", in.Period, MaxStringLength)
	if strings.TrimSpace(in.Description) == "" {
		errors = append(errors, ValidationError{Field: "description", Message: "description is required"})
	}

	return errors
}

// ValidateTestimonial validates an admin testimonial payload
func ValidateTestimonial(in *models.TestimonialInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "name", in.Name, MaxStringLength)
	errors = appendRequired(errors, "role", in.Role, MaxStringLength)
	errors = appendRequired(errors, "company", in.Company, MaxStringLength)
	if strings.TrimSpace(in.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		errors = append(errors, ValidationError{Field: "rating", Message: "rating must be between 1 and 5", Value: *in.Rating})
	}

	return errors
}

// ValidateSubscribe validates a newsletter subscription
func ValidateSubscribe(in *models.SubscribeInput) []ValidationError {
	var errors []ValidationError

	errors = appendEmail(errors, "email", in.Email)
	errors = appendOptional(errors, "name", in.Name, MaxStringLength)

	return errors
}

// ValidateContact validates a contact form submission
func ValidateContact(in *models.ContactInput) []ValidationError {
	var errors []ValidationError

	errors = appendRequired(errors, "name", in.Name, MaxStringLength)
	errors = appendEmail(errors, "email", in.Email)
	errors = appendRequired(errors, "subject", in.Subject, MaxStringLength)
	errors = appendRequired(errors, "message", in.Message, MaxMessageLength)

	return errors
}

// ValidateSearch validates the search query and type
func ValidateSearch(q, searchType string) []ValidationError {
	var errors []ValidationError

	if utf8.RuneCountInString(q) > MaxStringLength {
		errors = append(errors, tooLong("q", MaxStringLength))
	}
	if searchType != "" && !models.ValidSearchTypes[searchType] {
		errors = append(errors, ValidationError{Field: "type", Message: "type must be one of: all, articles, projects", Value: searchType})
	}

	return errors
}

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidSlug reports whether s is kebab-case
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// IsValidURL reports whether s is an absolute http or https URL
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Slugify turns a title into a kebab-case slug, folding accents to ASCII
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func appendRequired(errors []ValidationError, field, value string, max int) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errors, ValidationError{Field: field, Message: field + " is required"})
	}
	if utf8.RuneCountInString(value) > max {
		return append(errors, tooLong(field, max))
	}
	return errors
}

func appendOptional(errors []ValidationError, field, value string, max int) []ValidationError {
	if utf8.RuneCountInString(value) > max {
		return append(errors, tooLong(field, max))
	}
	return errors
}

func appendEmail(errors []ValidationError, field, value string) []ValidationError {
	switch {
	case value == "":
		return append(errors, ValidationError{Field: field, Message: field + " is required"})
	case len(value) > MaxStringLength:
		return append(errors, tooLong(field, MaxStringLength))
	case !emailRegex.MatchString(value):
		return append(errors, ValidationError{Field: field, Message: "invalid email format", Value: value})
	}
	return errors
}

func tooLong(field string, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("%s must not exceed %d characters", field, max)}
}
