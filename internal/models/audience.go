package models

import (
	"time"
)

// Subscriber is a newsletter subscriber
type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	IsActive       bool       `json:"is_active"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SubscribeInput is the public subscription form
type SubscribeInput struct {
	Email string `json:"email" form:"email"`
	Name  string `json:"name" form:"name"`
}

// SubscriberFilter narrows the admin subscriber list
type SubscriberFilter struct {
	Status string // "active", "inactive" or empty
	Search string
}

// SubscriberStats summarizes the subscriber list
type SubscriberStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	ThisMonth int `json:"this_month"`
}

// ContactMessage is a message sent through the contact form
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactInput is the public contact form
type ContactInput struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
	// Honeypot is hidden from people
	Honeypot string `json:"honeypot" form:"honeypot"`
}

// ContactInbox is a page of contact messages with the unread total
type ContactInbox struct {
	Data        []*ContactMessage `json:"data"`
	Meta        PageMeta          `json:"meta"`
	UnreadCount int               `json:"unread_count"`
}
