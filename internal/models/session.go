package models

// Claims represents JWT claims for an anonymous booking session
type Claims struct {
	SessionID string `json:"session_id"`
	Exp       int64  `json:"exp"`
}
