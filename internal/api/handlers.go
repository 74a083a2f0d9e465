package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waygen/internal/models"
	"waygen/internal/service/assistant"
)

// Handler wires HTTP routes to the assistant service.
type Handler struct {
	assistant *assistant.Service
}

// NewHandler constructs a Handler instance.
func NewHandler(service *assistant.Service) *Handler {
	return &Handler{assistant: service}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.welcome)

	api := router.Group("/api")
	api.GET("/health", h.health)

	chat := api.Group("/chat")
	chat.POST("", h.chat)
	chat.GET("/history/:session_id", h.history)
	chat.GET("/sessions", h.sessions)

	api.GET("/reports", h.listReports)
	api.POST("/reports", h.createReport)
}

func (h *Handler) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to WayGen AI Backend API"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type chatRequest struct {
	Content       string `json:"content"`
	SessionID     *int64 `json:"session_id"`
	Country       string `json:"country"`
	Education     string `json:"education"`
	Interest      string `json:"interest"`
	Budget        string `json:"budget"`
	TimeAvailable string `json:"time_available"`
}

// chat handles one conversation turn. Authenticated callers pass
// user_id as a query parameter and get their stored profile; guests may
// supply profile fields in the body.
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, ok := optionalUserID(c)
	if !ok {
		return
	}

	result, err := h.assistant.HandleMessage(c.Request.Context(), assistant.ChatRequest{
		Content:   req.Content,
		SessionID: req.SessionID,
		UserID:    userID,
		Guest: models.Profile{
			Country:       req.Country,
			Education:     req.Education,
			Interest:      req.Interest,
			Budget:        req.Budget,
			TimeAvailable: req.TimeAvailable,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, assistant.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) history(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	messages, err := h.assistant.SessionHistory(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		out = append(out, gin.H{
			"id":        m.ID,
			"role":      m.Role,
			"content":   m.Content,
			"timestamp": m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) sessions(c *gin.Context) {
	userID, ok := optionalUserID(c)
	if !ok {
		return
	}
	sessions, err := h.assistant.ListSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, gin.H{
			"id":         s.ID,
			"title":      s.Title,
			"created_at": s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listReports(c *gin.Context) {
	userID, ok := optionalUserID(c)
	if !ok {
		return
	}
	if userID == nil {
		c.JSON(http.StatusOK, []models.Report{})
		return
	}
	reports, err := h.assistant.ListReports(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

type reportRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) createReport(c *gin.Context) {
	userID, ok := optionalUserID(c)
	if !ok {
		return
	}
	if userID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	report, err := h.assistant.CreateReport(c.Request.Context(), *userID, req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, report)
}

// optionalUserID parses the user_id query parameter. The bool result is
// false only when the request was already answered with an error.
func optionalUserID(c *gin.Context) (*int64, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return nil, false
	}
	return &id, true
}
