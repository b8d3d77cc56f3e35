package dto

// GenerateTokenRequest carries the credential grant.
type GenerateTokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse is the issuance payload: the signed token, a display name
// and the unix expiry. Email and raw username are never included.
type TokenResponse struct {
	Token           string `json:"token"`
	UserDisplayName string `json:"user_display_name,omitempty"`
	TokenExpires    int64  `json:"token_expires"`
}

// StatusResponse is the acknowledgement envelope returned by the validate
// and revoke endpoints.
type StatusResponse struct {
	Code string     `json:"code"`
	Data StatusData `json:"data"`
}

// StatusData carries the transport status inside the envelope.
type StatusData struct {
	Status int `json:"status"`
}

// CurrentUserResponse describes the authenticated caller on /me.
type CurrentUserResponse struct {
	UserID     int64  `json:"user_id"`
	TrackingID string `json:"tracking_id,omitempty"`
	Extended   bool   `json:"extended,omitempty"`
}
