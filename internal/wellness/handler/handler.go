package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohdfaziel/InnerPath/internal/logger"
	"github.com/mohdfaziel/InnerPath/internal/middleware"
	"github.com/mohdfaziel/InnerPath/internal/wellness"
)

type Handler struct {
	service *wellness.Service
	devMode bool
}

func NewHandler(service *wellness.Service, devMode bool) *Handler {
	return &Handler{
		service: service,
		devMode: devMode,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {

	// ----------------------------
	// Public Routes
	// ----------------------------

	r.GET("/sessions", h.listPublic)

	// ----------------------------
	// Owner Routes
	// ----------------------------

	mine := r.Group("/my-sessions")
	mine.Use(requireAuth)

	mine.GET("", h.listOwned)
	mine.GET("/:id", h.get)
	mine.POST("/save-draft", h.saveDraft)
	mine.POST("/publish", h.publish)
	mine.DELETE("/:id", h.delete)
}

func (h *Handler) listPublic(c *gin.Context) {
	sessions, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch public sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Public sessions retrieved successfully",
		"sessions": sessions,
	})
}

func (h *Handler) listOwned(c *gin.Context) {
	sessions, err := h.service.ListOwned(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch user sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "User sessions retrieved successfully",
		"sessions": sessions,
	})
}

func (h *Handler) get(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"session": sess,
	})
}

type saveDraftRequest struct {
	SessionID   string   `json:"sessionId"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	ResourceURL string   `json:"json_file_url"`
}

func (h *Handler) saveDraft(c *gin.Context) {
	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	sess, err := h.service.SaveDraft(c.Request.Context(), callerID(c), wellness.DraftInput{
		SessionID:   req.SessionID,
		Title:       req.Title,
		Tags:        req.Tags,
		ResourceURL: req.ResourceURL,
	})
	if err != nil {
		h.fail(c, err, "Failed to save draft")
		return
	}

	message := "Draft saved successfully"
	if req.SessionID != "" {
		message = "Draft updated successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"session": sess,
	})
}

type publishRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors": []wellness.FieldError{
				{Field: "sessionId", Message: "Session ID is required"},
			},
		})
		return
	}

	sess, err := h.service.Publish(c.Request.Context(), callerID(c), req.SessionID)
	if err != nil {
		h.fail(c, err, "Failed to publish session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session published successfully",
		"session": sess,
	})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session deleted successfully",
	})
}

func callerID(c *gin.Context) string {
	id, _ := middleware.UserIDFromContext(c.Request.Context())
	return id
}

// fail converts a service error into the response envelope. Nothing
// propagates raw; 500 detail is suppressed outside development mode.
func (h *Handler) fail(c *gin.Context, err error, genericMsg string) {
	var vErr *wellness.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  vErr.Fields,
		})
	case errors.Is(err, wellness.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
	default:
		logger.Error(genericMsg, map[string]any{
			"error": err.Error(),
			"path":  c.Request.URL.Path,
		})
		body := gin.H{"message": genericMsg}
		if h.devMode {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
