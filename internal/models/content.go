package models

import (
	"time"
)

// Project is a portfolio project
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
	Link        string     `json:"link,omitempty"`
	Tags        StringList `json:"tags"`
	SortOrder   int        `json:"sort_order"`
	IsArchived  bool       `json:"is_archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectInput is the admin create/update payload
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	SortOrder   int      `json:"sort_order"`
	IsArchived  bool     `json:"is_archived"`
}

// Skill is a group of related skills
type Skill struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Items     StringList `json:"items"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SkillInput is the admin create/update payload
type SkillInput struct {
	Name      string   `json:"name"`
	Icon      string   `json:"icon"`
	Items     []string `json:"items"`
	SortOrder int      `json:"sort_order"`
}

// Experience is a position held
type Experience struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Period      string    `json:"period"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExperienceInput is the admin create/update payload
type ExperienceInput struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// Testimonial is a quote from a colleague or client
type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Content   string    `json:"content"`
	Avatar    string    `json:"avatar,omitempty"`
	Rating    int       `json:"rating"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TestimonialInput is the admin create/update payload. A nil rating defaults to 5.
type TestimonialInput struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Company   string `json:"company"`
	Content   string `json:"content"`
	Avatar    string `json:"avatar"`
	Rating    *int   `json:"rating"`
	SortOrder int    `json:"sort_order"`
}

// Home is the homepage payload
type Home struct {
	Projects     []*Project     `json:"projects"`
	Skills       []*Skill       `json:"skills"`
	Experiences  []*Experience  `json:"experiences"`
	Testimonials []*Testimonial `json:"testimonials"`
	CVURL        *string        `json:"cv_url"`
}
