package models

import (
	"time"

	"github.com/google/uuid"
)

// Viewer represents a client exploring the space
type Viewer struct {
	// From JWT claims; anonymous viewers only get an ID and username
	ID          string `json:"id"`          // Converted from int64 user_id
	Username    string `json:"username"`    // JWT claim
	Email       string `json:"email"`       // JWT claim
	Permissions int64  `json:"permissions"` // JWT claim: bitwise permission flags
	Activated   int64  `json:"activated"`   // JWT claim: activation timestamp or ban status
	AuthMethod  string `json:"auth_method"` // JWT claim: "password" or "oauth"
	Anonymous   bool   `json:"anonymous"`

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`

	// Session state
	SessionID string `json:"session_id"`

	// Text of the last cell this viewer located
	LastCell string `json:"last_cell,omitempty"`
}

// NewAnonymousViewer creates a viewer for a connection without a token
func NewAnonymousViewer() *Viewer {
	id := uuid.New().String()
	return &Viewer{
		ID:        id,
		Username:  "guest-" + id[:8],
		Activated: time.Now().Unix(),
		Anonymous: true,
	}
}

// IsActive checks if the viewer account is activated and not banned
func (v *Viewer) IsActive() bool {
	// activated > 0 means activated
	// activated == 0 means not activated
	// activated == -1 means banned
	return v.Activated > 0
}

// IsBanned checks if the viewer is banned
func (v *Viewer) IsBanned() bool {
	return v.Activated == -1
}

// IsConnected checks if the viewer is currently connected
func (v *Viewer) IsConnected() bool {
	return v.Connected
}
