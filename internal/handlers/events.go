package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/dto"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/middleware"
	"github.com/yukikurage/pickpic-api/internal/services"
)

// EventHandler coordinates event lifecycle handlers.
type EventHandler struct {
	eventService      *services.EventService
	membershipService *services.MembershipService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, membershipService *services.MembershipService) *EventHandler {
	return &EventHandler{
		eventService:      eventService,
		membershipService: membershipService,
	}
}

// CreateEvent creates a new event owned by the current user.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateEventRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(services.CreateEventInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event, false))
}

// ListEvents returns the events the user owns and the events the user has
// accepted an invitation to, as two disjoint sets.
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	events, err := h.membershipService.ListEventsForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEventsDTO{
		OwnedEvents:   dto.ToEventDTOs(events.Owned, false),
		InvitedEvents: dto.ToEventDTOs(events.Invited, false),
	})
}

// GetEvent returns event details. ?expand=owner inlines the owner entity.
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	expandOwner := c.Query("expand") == "owner"

	loaded, err := h.eventService.GetEvent(event.ID, expandOwner)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*loaded, expandOwner))
}

// RenameEvent updates the event name. Owner only.
func (h *EventHandler) RenameEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	userID, _ := middleware.GetUserID(c)

	type RenameRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	renamed, err := h.eventService.RenameEvent(event.ID, userID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*renamed, false))
}

// DeleteEvent deletes the event and everything it owns. Owner only.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := h.eventService.DeleteEvent(c.Request.Context(), event.ID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

// LastModified returns the event's last-modified timestamp.
func (h *EventHandler) LastModified(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	lastModified, err := h.eventService.LastModified(event.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"last_modified": lastModified,
	})
}

// ImageCount returns the number of images in the event's gallery.
func (h *EventHandler) ImageCount(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	count, err := h.eventService.ImageCount(event.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_count": count,
	})
}

// ListMembers lists the event's members, pending and accepted.
func (h *EventHandler) ListMembers(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	members, err := h.membershipService.ListMembers(event.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToMemberDTOs(members),
	})
}
