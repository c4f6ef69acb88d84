package models

import (
	"time"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// ValidCommentStatuses defines allowed moderation states
var ValidCommentStatuses = map[string]bool{
	string(CommentStatusPending):  true,
	string(CommentStatusApproved): true,
	string(CommentStatusRejected): true,
}

// Comment is a reader comment on an article. Replies reference a top-level
// comment on the same article through ParentID.
type Comment struct {
	ID          string        `json:"id"`
	ArticleID   string        `json:"article_id"`
	ParentID    *string       `json:"parent_id"`
	AuthorName  string        `json:"author_name"`
	AuthorEmail *string       `json:"author_email"`
	Content     string        `json:"content"`
	Status      CommentStatus `json:"status"`
	IPAddress   string        `json:"-"`
	UserAgent   string        `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsApproved reports whether the comment is publicly visible
func (c *Comment) IsApproved() bool {
	return c.Status == CommentStatusApproved
}

// CommentView is the JSON shape of a comment with the derived approval flag
type CommentView struct {
	*Comment
	IsApproved bool `json:"is_approved"`
}

// NewCommentView wraps c for output
func NewCommentView(c *Comment) CommentView {
	return CommentView{Comment: c, IsApproved: c.IsApproved()}
}

// AdminComment is a comment listed for moderation
type AdminComment struct {
	CommentView
	ArticleTitle string `json:"article_title"`
	ArticleSlug  string `json:"article_slug"`
	ParentAuthor string `json:"parent_author,omitempty"`
	IPAddress    string `json:"ip_address"`
	UserAgent    string `json:"user_agent"`
}

// CommentFilter narrows the moderation list
type CommentFilter struct {
	Status    CommentStatus
	ArticleID string
}

// SubmitCommentInput is the public comment form
type SubmitCommentInput struct {
	AuthorName string  `json:"author_name" form:"author_name"`
	Content    string  `json:"content" form:"content"`
	ParentID   *string `json:"parent_id" form:"parent_id"`
	// Website is a honeypot; people never fill it in
	Website string `json:"website" form:"website"`
}

// CommentThread is an approved top-level comment with its approved replies
type CommentThread struct {
	CommentView
	Reactions ReactionCounts   `json:"reactions"`
	Replies   []*CommentThread `json:"replies,omitempty"`
}

// ReactionKind is the closed set of reactions
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionHelpful ReactionKind = "helpful"
)

// Valid reports whether k is a known reaction kind
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionHelpful
}

// Opposite returns the mutually exclusive kind
func (k ReactionKind) Opposite() ReactionKind {
	if k == ReactionLike {
		return ReactionHelpful
	}
	return ReactionLike
}

// Reaction is one client's reaction to a comment
type Reaction struct {
	ID        string       `json:"id"`
	CommentID string       `json:"comment_id"`
	Kind      ReactionKind `json:"reaction_type"`
	IPAddress string       `json:"-"`
	UserAgent string       `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReactionCounts aggregates reactions on one comment
type ReactionCounts struct {
	Likes    int `json:"likes_count"`
	Helpfuls int `json:"helpfuls_count"`
}

// ToggleAction is the outcome of a reaction toggle
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

// ToggleResult is returned by the reaction toggle endpoint
type ToggleResult struct {
	Action      ToggleAction `json:"action"`
	Likes       int          `json:"likes_count"`
	Helpfuls    int          `json:"helpfuls_count"`
	UserLiked   bool         `json:"user_liked"`
	UserHelpful bool         `json:"user_helpful"`
}
