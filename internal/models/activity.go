package models

import (
	"encoding/json"
	"time"
)

// EntityKind is the closed set of records the activity log tracks
type EntityKind string

const (
	EntityArticle        EntityKind = "article"
	EntityProject        EntityKind = "project"
	EntitySkill          EntityKind = "skill"
	EntityExperience     EntityKind = "experience"
	EntityTestimonial    EntityKind = "testimonial"
	EntityComment        EntityKind = "comment"
	EntityCV             EntityKind = "cv"
	EntitySubscriber     EntityKind = "newsletter_subscriber"
	EntityContactMessage EntityKind = "contact_message"
)

// ValidEntityKinds defines allowed entity kind filters
var ValidEntityKinds = map[string]bool{
	string(EntityArticle):        true,
	string(EntityProject):        true,
	string(EntitySkill):          true,
	string(EntityExperience):     true,
	string(EntityTestimonial):    true,
	string(EntityComment):        true,
	string(EntityCV):             true,
	string(EntitySubscriber):     true,
	string(EntityContactMessage): true,
}

// ActivityAction is what happened to the entity
type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionUpdated ActivityAction = "updated"
	ActionDeleted ActivityAction = "deleted"
)

// ValidActivityActions defines allowed action filters
var ValidActivityActions = map[string]bool{
	string(ActionCreated): true,
	string(ActionUpdated): true,
	string(ActionDeleted): true,
}

// ActivityLog records an admin change with before/after snapshots
type ActivityLog struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor,omitempty"`
	Action     ActivityAction  `json:"action"`
	EntityKind EntityKind      `json:"entity_kind"`
	EntityID   string          `json:"entity_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ActivityFilter narrows the activity log list
type ActivityFilter struct {
	EntityKind EntityKind
	Action     ActivityAction
}
