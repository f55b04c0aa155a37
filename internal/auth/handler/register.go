package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohdfaziel/InnerPath/internal/auth/credentials"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	userID, err := h.credentialService.Register(
		c.Request.Context(),
		req.Email,
		req.Password,
	)

	if err != nil {
		switch err {
		case credentials.ErrAlreadyRegistered:
			c.JSON(http.StatusConflict, gin.H{"message": "Account already exists"})
		case credentials.ErrInvalidEmail:
			c.JSON(http.StatusBadRequest, gin.H{"message": "A valid email is required"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		}
		return
	}

	bearer, _, err := h.issueToken(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   bearer,
		"user": gin.H{
			"id":    userID,
			"email": req.Email,
		},
	})
}
