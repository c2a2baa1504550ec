package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/services"
)

// respondServiceError maps service sentinel errors onto the API error
// taxonomy. Anything unclassified is logged with context and surfaced as a
// generic internal error so no internal detail reaches the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUnknownSubject),
		errors.Is(err, services.ErrImageNotFound),
		errors.Is(err, services.ErrNoImagesInEvent),
		errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrInviteLinkNotFound),
		errors.Is(err, services.ErrNoProfilePicture):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrInviteLinkExpired):
		apierrors.Gone(c, err.Error())

	case errors.Is(err, services.ErrNotEventOwner),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrRemoveNotPermitted):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrInvalidEventName),
		errors.Is(err, services.ErrInviteTTLTooLong),
		errors.Is(err, services.ErrInviteTTLNotPositive),
		errors.Is(err, services.ErrInvalidVote),
		errors.Is(err, services.ErrBadContentType),
		errors.Is(err, services.ErrEmptyUpload),
		errors.Is(err, services.ErrInvalidContentSort),
		errors.Is(err, services.ErrNoInviteeIDs),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrDisplayNameRequired),
		errors.Is(err, services.ErrBadPictureContentType):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrContentConflict):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, "Invalid or expired token")

	case errors.Is(err, services.ErrBlobStoreFailure),
		errors.Is(err, services.ErrProfilePictureUpstream):
		log.Printf("upstream failure on %s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.Upstream(c, "")

	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}
