package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/constants"
	"github.com/yukikurage/pickpic-api/internal/database"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/models"
)

// RequireEventAccess checks that the current user belongs to the event. It
// answers 404 for non-members so event existence never leaks through access
// checks.
func RequireEventAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventIDStr := c.Param("id")
		eventID, err := strconv.ParseUint(eventIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid event ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var event models.Event
		if err := database.GetDB().First(&event, eventID).Error; err != nil {
			apierrors.NotFound(c, "Event not found")
			c.Abort()
			return
		}

		var membership models.EventMembership
		err = database.GetDB().
			Where("event_id = ? AND user_id = ?", eventID, userID).
			First(&membership).Error
		if err != nil {
			apierrors.NotFound(c, "Event not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEvent, event)
		c.Set(constants.ContextKeyMembership, membership)
		c.Next()
	}
}

// RequireEventOwner checks that the current user owns the event. Must run
// after RequireEventAccess.
func RequireEventOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := GetEvent(c)
		if !ok {
			apierrors.Forbidden(c, "Event access required")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if event.OwnerID != userID {
			apierrors.Forbidden(c, "Only the event owner can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetEvent retrieves the event loaded by RequireEventAccess
func GetEvent(c *gin.Context) (models.Event, bool) {
	eventInterface, exists := c.Get(constants.ContextKeyEvent)
	if !exists {
		return models.Event{}, false
	}

	event, ok := eventInterface.(models.Event)
	return event, ok
}

// GetMembership retrieves the membership loaded by RequireEventAccess
func GetMembership(c *gin.Context) (models.EventMembership, bool) {
	membershipInterface, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return models.EventMembership{}, false
	}

	membership, ok := membershipInterface.(models.EventMembership)
	return membership, ok
}
