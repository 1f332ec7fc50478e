// Package model holds the JSON shapes exchanged with the dashboard API.
// The server owns entities: fields the client does not model are kept in
// Extra and written back unchanged, and ids or counters sent as strings are
// accepted.
package model

import "encoding/json"

// User is the authenticated account returned by POST /login.
type User struct {
	ID    int64
	Name  string
	Email string
	Extra map[string]json.RawMessage
}

// Credentials is the POST /login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the POST /login response body.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Contact represents a WhatsApp contact managed by the dashboard.
type Contact struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	CreatedAt string
	UpdatedAt string
	Extra     map[string]json.RawMessage
}

// ContactInput is the create/update body for a contact.
type ContactInput struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Group represents a broadcast group and, on detail responses, its members.
type Group struct {
	ID          int64
	Name        string
	Description string
	Members     []Contact
	CreatedAt   string
	UpdatedAt   string
	Extra       map[string]json.RawMessage
}

// GroupInput is the create/update body for a group.
type GroupInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// MembersInput is the POST /groups/:id/contacts body.
type MembersInput struct {
	ContactIDs []int64 `json:"contact_ids"`
}

// Message is one message sent to a group.
type Message struct {
	ID        int64
	GroupID   int64
	Text      string
	Status    string
	CreatedAt string
	Extra     map[string]json.RawMessage
}

// MessageInput is the POST /groups/:id/send body.
type MessageInput struct {
	Text string `json:"text"`
}

// SendResult is the POST /groups/:id/send response body.
type SendResult struct {
	Success bool     `json:"success"`
	Message *Message `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ContactID returns c.ID.
func ContactID(c Contact) int64 { return c.ID }

// GroupID returns g.ID.
func GroupID(g Group) int64 { return g.ID }
