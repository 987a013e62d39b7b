package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vanishedd/pokerwithyourfriends/internal/game"
	"github.com/vanishedd/pokerwithyourfriends/internal/room"
	"github.com/vanishedd/pokerwithyourfriends/internal/roomcode"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the room API over HTTP and upgrades game connections to
// websockets. All game state lives in the coordinator.
type Server struct {
	logger      *log.Logger
	config      *ServerConfig
	coordinator *room.Coordinator
	router      *gin.Engine
	httpServer  *http.Server
	upgrader    websocket.Upgrader
}

// New builds the server and its routes.
func New(logger *log.Logger, config *ServerConfig, coordinator *room.Coordinator) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		logger:      logger.WithPrefix("server"),
		config:      config,
		coordinator: coordinator,
		router:      gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Rooms are invite-by-code; the browser origin carries no
			// extra trust.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ws", s.handleWebSocket)

	api := s.router.Group("/api")
	api.POST("/rooms", s.handleCreateRoom)
	api.POST("/rooms/:code/join", s.handleJoinRoom)
	api.POST("/rooms/:code/start", s.handleStartHand)
	api.POST("/rooms/:code/lock", s.handleToggleLock)
	api.GET("/rooms/:code", s.handleSnapshot)
}

// Start runs the HTTP server on addr until the context is cancelled.
// An empty addr falls back to the configured address.
func (s *Server) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.config.GetServerAddress()
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("listening", "address", s.httpServer.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

type createRoomRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=20"`
	StartingStack int    `json:"startingStack" binding:"omitempty,min=200,max=50000"`
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 2-20 characters; stack 200-50000"})
		return
	}

	result, err := s.coordinator.CreateRoom(req.Name, req.StartingStack)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type joinRoomRequest struct {
	Name string `json:"name" binding:"required,min=2,max=20"`
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 2-20 characters"})
		return
	}

	result, err := s.coordinator.JoinRoom(c.Param("code"), req.Name)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (s *Server) handleStartHand(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := s.coordinator.StartHand(c.Param("code"), req.Token); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"started": true})
}

type lockRequest struct {
	Token  string `json:"token" binding:"required"`
	Locked *bool  `json:"locked" binding:"required"`
}

func (s *Server) handleToggleLock(c *gin.Context) {
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and locked are required"})
		return
	}

	if err := s.coordinator.ToggleLock(c.Param("code"), req.Token, *req.Locked); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": *req.Locked})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	snapshot, err := s.coordinator.Snapshot(c.Param("code"), c.Query("token"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleWebSocket authenticates with (room, token), upgrades and hands
// the connection to the coordinator.
func (s *Server) handleWebSocket(c *gin.Context) {
	code := roomcode.Normalize(c.Query("room"))
	token := c.Query("token")

	resolvedRoom, playerID, ok := s.coordinator.Resolve(token)
	if !ok || !strings.EqualFold(resolvedRoom, code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid room or token"})
		return
	}

	wsConn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(wsConn, s.logger, s.coordinator, code, token, playerID)
	conn.Start()
	if err := s.coordinator.Connect(code, token, conn); err != nil {
		conn.sendError("connect_rejected", err)
		_ = conn.Close()
	}
}

// renderError maps coordinator and engine errors onto HTTP statuses.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, room.ErrUnknownToken), errors.Is(err, room.ErrNotHost):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrHandInProgress):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
