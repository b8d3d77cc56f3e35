package events

import "time"

// EventType enumerates token lifecycle event identifiers.
type EventType string

const (
	EventTokenIssued      EventType = "token_issued"
	EventTokenRegenerated EventType = "token_regenerated"
	EventTokenRevoked     EventType = "token_revoked"
	EventUserInvalidated  EventType = "user_invalidated"
)

// Event represents a token lifecycle event emitted by the service.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	UserID     int64       `json:"user_id"`
	TrackingID string      `json:"tracking_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	Username  string    `json:"username"`
	UserAgent string    `json:"user_agent,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Tracked   bool      `json:"tracked"`
}

// TokenRegeneratedPayload payload.
type TokenRegeneratedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenRevokedPayload payload.
type TokenRevokedPayload struct {
	Expired bool `json:"expired"`
}

// UserInvalidatedPayload payload.
type UserInvalidatedPayload struct {
	RecordsDeleted int64 `json:"records_deleted"`
}
