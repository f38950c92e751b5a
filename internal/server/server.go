package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/tetracoords/internal/config"
	"github.com/gravitas-games/tetracoords/internal/logger"
	"github.com/gravitas-games/tetracoords/pkg/engine"
	"github.com/gravitas-games/tetracoords/pkg/models"
)

const accessTokenProtocol = "access_token"

// Server serves one tetracoord space to explorer clients
type Server struct {
	config       *config.Config
	engine       *engine.Engine
	session      *Session
	upgrader     websocket.Upgrader
	httpSrv      *http.Server
	jwtValidator *JWTValidator
	redis        *redis.Client

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance. Redis and JWT validation are only set
// up when configured.
func New(cfg *config.Config) (*Server, error) {
	logger.Sugar.Infof("Initializing server...")

	spaceCfg, err := cfg.Space.TspaceConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid space config: %w", err)
	}
	eng, err := engine.New(spaceCfg)
	if err != nil {
		return nil, err
	}
	logger.Sugar.Infof("Serving %s", eng)

	ctx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		config:      cfg,
		engine:      eng,
		session:     NewSession(cfg.Session.MaxViewers),
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{accessTokenProtocol},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	var blacklist Blacklist
	if cfg.Redis.Address != "" {
		srv.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := srv.redis.Ping(ctx).Err(); err != nil {
			srv.close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		blacklist = NewRedisBlacklist(srv.redis, cfg.Redis.BlacklistPrefix)
		logger.Sugar.Infof("Connected to Redis at %s", cfg.Redis.Address)
	}

	if cfg.JWT.Enabled {
		srv.jwtValidator, err = NewJWTValidator(ctx, cfg, blacklist)
		if err != nil {
			srv.close()
			return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
		}
	} else {
		logger.Sugar.Warnf("JWT authentication disabled, viewers connect anonymously")
	}

	logger.Sugar.Infof("Server initialized successfully")
	return srv, nil
}

// Engine returns the engine holding the served space
func (s *Server) Engine() *engine.Engine { return s.engine }

// Session returns the explorer session
func (s *Server) Session() *Session { return s.session }

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/space", s.handleSpace)
	mux.HandleFunc("/api/locate", s.handleLocate)
	mux.HandleFunc("/api/cell", s.handleCell)
	mux.HandleFunc("/api/grid", s.handleGrid)
	return mux
}

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Sugar.Infof("WebSocket endpoint: ws://%s/ws", addr)
	logger.Sugar.Infof("Health endpoint: http://%s/health", addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	logger.Sugar.Infof("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			logger.Sugar.Errorf("HTTP server shutdown error: %v", err)
		}
	}

	s.connMu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connMu.RUnlock()
	for _, conn := range conns {
		conn.stop()
	}

	s.close()
	logger.Sugar.Infof("Server shutdown complete")
	return nil
}

// close cancels background work and releases redis
func (s *Server) close() {
	s.cancel()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Sugar.Errorf("Redis close error: %v", err)
		}
		s.redis = nil
	}
}

// authenticate resolves the viewer for an upgrade request
func (s *Server) authenticate(r *http.Request) (*models.Viewer, error) {
	if s.jwtValidator == nil {
		return models.NewAnonymousViewer(), nil
	}

	tokenString := extractToken(r)
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	return s.jwtValidator.ValidateToken(r.Context(), tokenString)
}

// handleWebSocket handles WebSocket connection requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger.Sugar.Debugf("New WebSocket connection request from %s", r.RemoteAddr)

	viewer, err := s.authenticate(r)
	if err != nil {
		logger.Sugar.Infof("Rejected connection from %s: %v", r.RemoteAddr, err)
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := NewConnection(ws, s, viewer)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	logger.Sugar.Infof("WebSocket connection established: %s (%s)", viewer.Username, r.RemoteAddr)

	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	logger.Sugar.Infof("WebSocket connection closed: %s (%s)", viewer.Username, r.RemoteAddr)
}
