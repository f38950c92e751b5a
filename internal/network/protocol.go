package network

import (
	"encoding/json"

	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/tspace"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

// Message types - Client → Server
const (
	MsgTypeJoin    = "join"
	MsgTypeLeave   = "leave"
	MsgTypeLocate  = "locate"
	MsgTypeLookup  = "lookup"
	MsgTypeConvert = "convert"
	MsgTypePing    = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome      = "welcome"
	MsgTypeViewerJoined = "viewer_joined"
	MsgTypeViewerLeft   = "viewer_left"
	MsgTypeCell         = "cell"
	MsgTypeViewerHover  = "viewer_hover"
	MsgTypeCartesian    = "cartesian"
	MsgTypeError        = "error"
	MsgTypePong         = "pong"
)

// Error codes
const (
	ErrCodeInvalidMessage     = "invalid_message"
	ErrCodeInvalidTcoord      = "invalid_tcoord"
	ErrCodeInvalidPoint       = "invalid_point"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeSessionFull        = "session_full"
	ErrCodeNotJoined          = "not_joined"
	ErrCodeInternal           = "internal_error"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// LocatePayload asks for the cell under a display point
type LocatePayload struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// LookupPayload asks for the cell of an address. Tcoord may contain a
// point; Order is "h" or "l" and defaults to the space order.
type LookupPayload struct {
	Tcoord string `json:"tcoord"`
	Order  string `json:"order,omitempty"`
}

// ConvertPayload asks for the nominal cartesian position of an address
type ConvertPayload = LookupPayload

// --- Server Message Payloads ---

// WelcomePayload is sent to client after joining
type WelcomePayload struct {
	ViewerID  string        `json:"viewer_id"`
	Username  string        `json:"username"`
	SessionID string        `json:"session_id"`
	Space     SpaceInfo     `json:"space"`
	Status    SessionStatus `json:"status"`
}

// ViewerJoinedPayload notifies clients when a viewer joins
type ViewerJoinedPayload struct {
	ViewerID string `json:"viewer_id"`
	Username string `json:"username"`
}

// ViewerLeftPayload notifies clients when a viewer leaves
type ViewerLeftPayload struct {
	ViewerID string `json:"viewer_id"`
	Username string `json:"username"`
}

// CellPayload answers locate and lookup
type CellPayload struct {
	Cell CellInfo `json:"cell"`
}

// ViewerHoverPayload tells other viewers which cell a viewer located
type ViewerHoverPayload struct {
	ViewerID string   `json:"viewer_id"`
	Cell     CellInfo `json:"cell"`
}

// CartesianPayload answers convert
type CartesianPayload struct {
	Tcoord string  `json:"tcoord"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State       string `json:"state"`
	ViewerCount int    `json:"viewer_count"`
	MaxViewers  int    `json:"max_viewers"`
	Uptime      int64  `json:"uptime"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Shared views ---

// SpaceInfo describes a space
type SpaceInfo struct {
	Orientation       string            `json:"orientation"`
	Scale             float64           `json:"scale"`
	Origin            vector2d.Vector2D `json:"origin"`
	RotationDirection int               `json:"rotation_direction"`
	Precision         int               `json:"precision"`
	Order             string            `json:"order"`
}

// NewSpaceInfo describes s
func NewSpaceInfo(s *tspace.Space) SpaceInfo {
	return SpaceInfo{
		Orientation:       s.Orientation().String(),
		Scale:             s.Scale(),
		Origin:            s.Origin(),
		RotationDirection: s.RotationDirection(),
		Precision:         s.Precision(),
		Order:             s.Order().String(),
	}
}

// CellInfo is a cell with its display geometry
type CellInfo struct {
	Tcoord       tetracoord.Tetracoordinate `json:"tcoord"`
	Text         string                     `json:"text"`
	Flip         bool                       `json:"flip"`
	Size         float64                    `json:"size"`
	Ccoord       vector2d.Vector2D          `json:"ccoord"`
	Centroid     vector2d.Vector2D          `json:"centroid"`
	BoundsCenter vector2d.Vector2D          `json:"bounds_center"`
	Points       [3]vector2d.Vector2D       `json:"points"`
}

// NewCellInfo flattens c, with positions in display coordinates
func NewCellInfo(c tspace.Cell) CellInfo {
	return CellInfo{
		Tcoord:       c.Tcoord(),
		Text:         c.Tcoord().Text(),
		Flip:         c.Flip(),
		Size:         c.Size(),
		Ccoord:       c.Ccoord(),
		Centroid:     c.CentroidTransformed(),
		BoundsCenter: c.BoundsCenterTransformed(),
		Points:       c.PointsTransformed(),
	}
}
