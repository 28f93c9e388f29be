package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
)

// Request/response payloads.

type chatMessageRequest struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	MessageID         string    `json:"message_id"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	Timestamp         time.Time `json:"timestamp"`
}

type turnResponse struct {
	MessageID string    `json:"message_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type messagesListResponse struct {
	SessionID string         `json:"session_id"`
	Messages  []turnResponse `json:"messages"`
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.POST("/sessions", s.handleCreateSession)
	api.POST("/sessions/:id/messages", s.handleSendMessage)
	api.GET("/sessions/:id/messages", s.handleListMessages)
	api.GET("/stats", s.handleStats)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess := s.store.Create()
	s.logger.Info("session created", "session_id", sess.ID)

	c.JSON(http.StatusCreated, sessionResponse{
		SessionID: sess.ID.String(),
		CreatedAt: sess.CreatedAt,
	})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	start := time.Now()

	sessionID, ok := s.sessionID(c)
	if !ok {
		return
	}

	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "message must be a non-empty string"})
		return
	}

	// History is the prior turns only; the current message travels as the
	// query argument.
	history, err := s.store.History(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}

	answer, err := s.runner.Run(c.Request.Context(), req.Message, history)
	if err != nil {
		// Controller-level defect: surfaced as a 500, not stored in the
		// conversation.
		s.metrics.RecordError(metrics.OpRequest, time.Since(start))
		s.logger.Error("workflow invocation failed", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "error processing message: " + err.Error()})
		return
	}

	userTurn, err := s.store.Append(sessionID, llm.RoleUser, req.Message)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}
	if _, err := s.store.Append(sessionID, llm.RoleAssistant, answer); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}

	s.metrics.RecordTiming(metrics.OpRequest, time.Since(start))
	c.JSON(http.StatusOK, messageResponse{
		MessageID:         userTurn.ID.String(),
		UserMessage:       req.Message,
		AssistantResponse: answer,
		Timestamp:         userTurn.CreatedAt,
	})
}

func (s *Server) handleListMessages(c *gin.Context) {
	sessionID, ok := s.sessionID(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "limit must be an integer between 1 and 100"})
			return
		}
		limit = n
	}

	turns, err := s.store.Recent(sessionID, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}

	messages := make([]turnResponse, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, turnResponse{
			MessageID: turn.ID.String(),
			Role:      turn.Role,
			Content:   turn.Content,
			Timestamp: turn.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, messagesListResponse{
		SessionID: sessionID.String(),
		Messages:  messages,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// sessionID parses the :id path parameter. A malformed id cannot name any
// session, so it reports 404 like an unknown one.
func (s *Server) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return uuid.Nil, false
	}
	return id, true
}
