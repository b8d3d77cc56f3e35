package domain

import "time"

// TrackingStatus represents the server-side state of an issued token.
type TrackingStatus string

const (
	TrackingStatusActive  TrackingStatus = "active"
	TrackingStatusRevoked TrackingStatus = "revoked"
)

// TrackingRecord is the revocation/audit entry created alongside a token
// when tracking is enabled. Its primary key is the tracking id embedded
// in the token; deleting the record revokes the token.
type TrackingRecord struct {
	ID        string
	UserID    int64
	Username  string
	UserAgent string
	Status    TrackingStatus
	CreatedAt time.Time
}

// Active reports whether the record still authorizes its token.
func (r *TrackingRecord) Active() bool {
	return r != nil && r.Status == TrackingStatusActive
}
