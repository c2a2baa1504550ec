package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/dto"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/middleware"
	"github.com/yukikurage/pickpic-api/internal/services"
)

// MembershipHandler coordinates invitation and membership handlers.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// Invite invites a batch of users to the event. Already-invited users and
// self-invites are skipped; the call reports both counts.
func (h *MembershipHandler) Invite(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	userID, _ := middleware.GetUserID(c)

	type InviteRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required,min=1"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.membershipService.InviteDirect(event.ID, userID, req.UserIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListInvitations lists the current user's pending event invitations, each
// annotated with the owner's display name.
func (h *MembershipHandler) ListInvitations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.membershipService.ListPendingForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	invitations := make([]dto.PendingInvitationDTO, len(memberships))
	for i, m := range memberships {
		invitations[i] = dto.ToPendingInvitationDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitations,
	})
}

// AcceptInvitation transitions the current user's pending membership to
// accepted.
func (h *MembershipHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	if err := h.membershipService.AcceptInvitation(eventID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation accepted",
	})
}

// DeclineInvitation removes the current user's membership row.
func (h *MembershipHandler) DeclineInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	if err := h.membershipService.DeclineInvitation(eventID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation declined",
	})
}

// RemoveMember removes a member from the event. The owner can remove anyone
// but themself; members can remove themselves (leave).
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	actorID, _ := middleware.GetUserID(c)

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.membershipService.RemoveMember(event.ID, actorID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

// parseEventID reads the :id route parameter. Invitation endpoints skip the
// membership middleware: a pending invitee is not a member yet.
func parseEventID(c *gin.Context) (uint64, bool) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid event ID")
		return 0, false
	}
	return eventID, true
}
