package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/constants"
	"github.com/yukikurage/pickpic-api/internal/dto"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/middleware"
	"github.com/yukikurage/pickpic-api/internal/services"
)

// AuthHandler coordinates authentication and user profile handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Authenticate verifies the bearer token and returns the matching user,
// provisioning one on first sight.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		apierrors.Unauthorized(c, "Authorization header is missing or malformed")
		return
	}

	type AuthenticateRequest struct {
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}

	var req AuthenticateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	user, err := h.authService.Authenticate(services.AuthenticateInput{
		Token:       parts[1],
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateCurrentUser updates the authenticated user's display fields.
func (h *AuthHandler) UpdateCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateUserRequest struct {
		DisplayName *string `json:"display_name"`
		Email       *string `json:"email"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateUser(userID, services.UpdateUserInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// LookupUsers resolves email addresses to user records, for building direct
// invites from an address book.
func (h *AuthHandler) LookupUsers(c *gin.Context) {
	type LookupRequest struct {
		Emails []string `json:"emails" binding:"required,min=1"`
	}

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	users, err := h.authService.LookupUsersByEmail(req.Emails)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToEmailLookupDTOs(req.Emails, users),
	})
}

// GetProfilePicture streams the authenticated user's profile picture.
func (h *AuthHandler) GetProfilePicture(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	data, contentType, err := h.authService.GetProfilePicture(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// UploadProfilePicture replaces the authenticated user's profile picture. The
// raw image bytes form the request body.
func (h *AuthHandler) UploadProfilePicture(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, constants.MaxUploadBytes))
	if err != nil {
		apierrors.BadRequest(c, "Failed to read request body")
		return
	}

	contentType := c.GetHeader("Content-Type")
	if err := h.authService.UploadProfilePicture(c.Request.Context(), userID, data, contentType); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}
