package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/tetracoords/internal/logger"
	"github.com/gravitas-games/tetracoords/internal/network"
	"github.com/gravitas-games/tetracoords/pkg/models"
)

// ErrSessionFull is returned when a session reached its viewer cap
var ErrSessionFull = errors.New("session is full")

// Session groups the viewers exploring one space
type Session struct {
	ID        string
	CreatedAt time.Time

	// Viewer management. One viewer may hold several connections.
	viewers     map[string]*models.Viewer // viewerID -> Viewer
	connections map[*Connection]string    // Connection -> viewerID
	mu          sync.RWMutex

	status SessionStatus
}

// SessionStatus represents the current state of the session
type SessionStatus struct {
	State       string `json:"state"` // "waiting", "running"
	ViewerCount int    `json:"viewer_count"`
	MaxViewers  int    `json:"max_viewers"`
	Uptime      int64  `json:"uptime"` // seconds
}

// NewSession creates a new session with a random ID
func NewSession(maxViewers int) *Session {
	session := &Session{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		viewers:     make(map[string]*models.Viewer),
		connections: make(map[*Connection]string),
		status: SessionStatus{
			State:      "waiting",
			MaxViewers: maxViewers,
		},
	}

	logger.Sugar.Infof("Session %s created for up to %d viewers", session.ID, maxViewers)
	return session
}

// AddViewer adds a connection of viewer to the session and reports whether
// the viewer is new to it. The viewer cap counts viewers, not connections.
func (s *Session) AddViewer(viewer *models.Viewer, conn *Connection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.viewers[viewer.ID]
	if !exists && len(s.viewers) >= s.status.MaxViewers {
		return false, ErrSessionFull
	}

	s.viewers[viewer.ID] = viewer
	s.connections[conn] = viewer.ID
	s.updateCount()

	if !exists {
		logger.Sugar.Infof("Viewer %s (%s) joined session %s", viewer.Username, viewer.ID, s.ID)
	}
	return !exists, nil
}

// RemoveConnection drops conn from the session. It reports whether that was
// the viewer's last connection, in which case the viewer left.
func (s *Session) RemoveConnection(conn *Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewerID, ok := s.connections[conn]
	if !ok {
		return false
	}
	delete(s.connections, conn)
	for other, id := range s.connections {
		if id == viewerID {
			if s.viewers[viewerID] == conn.viewer {
				s.viewers[viewerID] = other.viewer
			}
			return false
		}
	}

	if viewer, exists := s.viewers[viewerID]; exists {
		logger.Sugar.Infof("Viewer %s (%s) left session %s", viewer.Username, viewerID, s.ID)
	}
	delete(s.viewers, viewerID)
	s.updateCount()
	return true
}

func (s *Session) updateCount() {
	s.status.ViewerCount = len(s.viewers)
	if s.status.ViewerCount > 0 {
		s.status.State = "running"
	} else {
		s.status.State = "waiting"
	}
}

// GetViewer retrieves a viewer by ID
func (s *Session) GetViewer(viewerID string) (*models.Viewer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewer, exists := s.viewers[viewerID]
	return viewer, exists
}

// GetViewers returns all viewers in the session
func (s *Session) GetViewers() []*models.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewers := make([]*models.Viewer, 0, len(s.viewers))
	for _, viewer := range s.viewers {
		viewers = append(viewers, viewer)
	}
	return viewers
}

// BroadcastMessage sends a message to all connected viewers
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.BroadcastExcept(nil, msg)
}

// BroadcastExcept sends a message to all viewers except the specified connection
func (s *Session) BroadcastExcept(exclude *Connection, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn != exclude {
			conn.SendMessage(msg)
		}
	}
}

// GetStatus returns the current session status
func (s *Session) GetStatus() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.status
	status.Uptime = int64(time.Since(s.CreatedAt).Seconds())
	return status
}
