package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/constants"
	"github.com/yukikurage/pickpic-api/internal/dto"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/middleware"
	"github.com/yukikurage/pickpic-api/internal/services"
)

// InviteHandler coordinates shareable invite link handlers.
type InviteHandler struct {
	inviteService *services.InviteService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// GenerateInviteLink creates a shareable link for the event. TTL is requested
// in hours and may not exceed 365 days.
func (h *InviteHandler) GenerateInviteLink(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	type GenerateRequest struct {
		TTLHours int64 `json:"ttl_hours"`
	}

	var req GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	ttl := constants.DefaultInviteLinkTTL
	if req.TTLHours != 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}

	link, err := h.inviteService.GenerateInviteLink(event.ID, ttl)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// ResolveInviteLink returns the event behind a live invite token, so joining
// clients can show what they are about to join.
func (h *InviteHandler) ResolveInviteLink(c *gin.Context) {
	event, err := h.inviteService.ResolveInviteLink(c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event, false))
}

// JoinViaLink joins the current user to the event behind the token. Joining
// is self-service: an existing pending invitation is promoted, otherwise an
// accepted membership is created outright.
func (h *InviteHandler) JoinViaLink(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	event, err := h.inviteService.JoinViaLink(c.Param("token"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined the event",
		"event":   dto.ToEventDTO(*event, false),
	})
}
