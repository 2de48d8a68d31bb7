package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserApproved   EventType = "user_approved"
	EventPostSaved      EventType = "post_saved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// UserApprovedPayload payload.
type UserApprovedPayload struct {
	UserID     string `json:"user_id"`
	ApprovedYN string `json:"approved_yn"`
}

// PostSavedPayload payload.
type PostSavedPayload struct {
	PostID string   `json:"post_id"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags"`
}
