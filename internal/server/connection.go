package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravitas-games/tetracoords/internal/logger"
	"github.com/gravitas-games/tetracoords/internal/network"
	"github.com/gravitas-games/tetracoords/pkg/models"
	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a viewer
type Connection struct {
	ws     *websocket.Conn
	server *Server

	// Viewer information, set before Handle
	viewer *models.Viewer
	joined bool

	// Buffered channel for outbound messages
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, viewer *models.Viewer) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		viewer: viewer,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Warnf("WebSocket read error: %v", err)
			}
			return
		}
		c.viewer.LastSeen = time.Now()

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			logger.Sugar.Debugf("Failed to parse client message: %v", err)
			c.SendError(network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Sugar.Warnf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	logger.Sugar.Debugf("Received message type %s from %s", msg.Type, c.viewer.ID)

	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin()

	case network.MsgTypeLeave:
		c.handleLeave()

	case network.MsgTypeLocate:
		c.handleLocate(msg.Payload)

	case network.MsgTypeLookup:
		c.handleLookup(msg.Payload)

	case network.MsgTypeConvert:
		c.handleConvert(msg.Payload)

	case network.MsgTypePing:
		c.handlePing()

	default:
		logger.Sugar.Debugf("Unknown message type: %s", msg.Type)
		c.SendError(network.ErrCodeUnknownMessageType, "Unknown message type")
	}
}

// handleJoin adds the viewer to the session
func (c *Connection) handleJoin() {
	session := c.server.session

	added, err := session.AddViewer(c.viewer, c)
	if err != nil {
		if errors.Is(err, ErrSessionFull) {
			c.SendError(network.ErrCodeSessionFull, "Session is full")
			return
		}
		logger.Sugar.Errorf("Failed to add viewer to session: %v", err)
		c.SendError(network.ErrCodeInvalidMessage, "Failed to join session")
		return
	}
	c.joined = true
	c.viewer.Connected = true
	c.viewer.ConnectedAt = time.Now()
	c.viewer.SessionID = session.ID

	status := session.GetStatus()
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			ViewerID:  c.viewer.ID,
			Username:  c.viewer.Username,
			SessionID: session.ID,
			Space:     network.NewSpaceInfo(c.server.engine.Space()),
			Status: network.SessionStatus{
				State:       status.State,
				ViewerCount: status.ViewerCount,
				MaxViewers:  status.MaxViewers,
				Uptime:      status.Uptime,
			},
		},
	})

	if !added {
		return
	}
	session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypeViewerJoined,
		Payload: network.ViewerJoinedPayload{
			ViewerID: c.viewer.ID,
			Username: c.viewer.Username,
		},
	})
}

// handleLeave removes the viewer from the session
func (c *Connection) handleLeave() {
	if !c.joined {
		return
	}
	c.joined = false
	c.viewer.Connected = false

	if c.server.session.RemoveConnection(c) {
		c.server.session.BroadcastMessage(&network.ServerMessage{
			Type: network.MsgTypeViewerLeft,
			Payload: network.ViewerLeftPayload{
				ViewerID: c.viewer.ID,
				Username: c.viewer.Username,
			},
		})
	}
}

// handleLocate answers with the cell under a display point and shows it to
// the other viewers
func (c *Connection) handleLocate(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}

	var req network.LocatePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.X == nil || req.Y == nil {
		c.SendError(network.ErrCodeInvalidPoint, "Locate needs numeric x and y")
		return
	}

	cell := c.server.engine.Space().CcoordToCell(vector2d.New(*req.X, *req.Y))
	info := network.NewCellInfo(cell)
	c.viewer.LastCell = info.Text

	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeCell,
		Payload: network.CellPayload{Cell: info},
	})
	c.server.session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypeViewerHover,
		Payload: network.ViewerHoverPayload{
			ViewerID: c.viewer.ID,
			Cell:     info,
		},
	})
}

// handleLookup answers with the cell of an address
func (c *Connection) handleLookup(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}

	t, err := c.parseTcoord(payload)
	if err != nil {
		c.SendError(network.ErrCodeInvalidTcoord, err.Error())
		return
	}

	cell := c.server.engine.Space().TcoordToCell(t)
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeCell,
		Payload: network.CellPayload{Cell: network.NewCellInfo(cell)},
	})
}

// handleConvert answers with the cartesian position of an address in the
// space orientation
func (c *Connection) handleConvert(payload json.RawMessage) {
	if !c.requireJoined() {
		return
	}

	t, err := c.parseTcoord(payload)
	if err != nil {
		c.SendError(network.ErrCodeInvalidTcoord, err.Error())
		return
	}

	p := t.ToCartesian(tetracoord.WithOrientation(c.server.engine.Space().Orientation()))
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeCartesian,
		Payload: network.CartesianPayload{
			Tcoord: t.Text(),
			X:      p.X,
			Y:      p.Y,
		},
	})
}

func (c *Connection) parseTcoord(payload json.RawMessage) (tetracoord.Tetracoordinate, error) {
	var req network.LookupPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return tetracoord.Tetracoordinate{}, fmt.Errorf("invalid payload: %w", err)
	}
	return parseTcoord(req.Tcoord, req.Order, c.server.engine.Space().Order())
}

func (c *Connection) requireJoined() bool {
	if !c.joined {
		c.SendError(network.ErrCodeNotJoined, "Join the session first")
		return false
	}
	return true
}

// handlePing handles ping requests
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Sugar.Errorf("Failed to marshal message: %v", err)
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		logger.Sugar.Warnf("Send buffer full for %s, dropping message", c.viewer.ID)
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// stop closes the socket from any goroutine. The read pump then fails and
// runs Close itself.
func (c *Connection) stop() {
	c.ws.Close()
}

// Close leaves the session and stops the write pump. It runs on the read
// pump goroutine, which owns the join state; other goroutines use stop. It
// is safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.handleLeave()
		close(c.done)
	})
}
