package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/constants"
	"github.com/yukikurage/pickpic-api/internal/dto"
	apierrors "github.com/yukikurage/pickpic-api/internal/errors"
	"github.com/yukikurage/pickpic-api/internal/middleware"
	"github.com/yukikurage/pickpic-api/internal/services"
	"github.com/yukikurage/pickpic-api/internal/utils"
)

// ImageHandler coordinates gallery and voting handlers.
type ImageHandler struct {
	imageService *services.ImageService
	eventService *services.EventService
	scoreService *services.ScoreService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService *services.ImageService, eventService *services.EventService, scoreService *services.ScoreService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		eventService: eventService,
		scoreService: scoreService,
	}
}

// Upload stores a new image and adds it to the event's gallery. The raw image
// bytes form the request body; Content-Type must be image/*.
func (h *ImageHandler) Upload(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	userID, _ := middleware.GetUserID(c)

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, constants.MaxUploadBytes))
	if err != nil {
		apierrors.BadRequest(c, "Failed to read request body")
		return
	}

	content, err := h.imageService.Upload(c.Request.Context(), event.ID, userID, data, c.GetHeader("Content-Type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContentDTO(*content))
}

// ListContent lists the event's gallery. ?sort takes "field asc" or
// "field desc" over created_at, score and file_name.
func (h *ImageHandler) ListContent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	sort, err := services.ParseContentSort(c.Query("sort"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)

	contents, total, err := h.eventService.ListContent(event.ID, sort, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": dto.ToContentDTOs(contents),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Unranked lists the gallery entries the current user has not voted on yet.
func (h *ImageHandler) Unranked(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	userID, _ := middleware.GetUserID(c)

	contents, err := h.scoreService.UnrankedImagesForUser(event.ID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": dto.ToContentDTOs(contents),
	})
}

// TopImage streams the event's highest-scored image.
func (h *ImageHandler) TopImage(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	image, err := h.scoreService.HighestScoredImage(event.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, contentType, err := h.imageService.Download(c.Request.Context(), image.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// Download streams an image, provided it belongs to the event.
func (h *ImageHandler) Download(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	imageID, ok := parseImageID(c)
	if !ok {
		return
	}

	data, contentType, err := h.imageService.DownloadFromEvent(c.Request.Context(), event.ID, imageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// RemoveContent takes an image out of the event's gallery.
func (h *ImageHandler) RemoveContent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	imageID, ok := parseImageID(c)
	if !ok {
		return
	}

	if err := h.imageService.RemoveContent(c.Request.Context(), event.ID, imageID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

// Vote records the current user's vote on an image in the event.
func (h *ImageHandler) Vote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	imageID, ok := parseImageID(c)
	if !ok {
		return
	}

	type VoteRequest struct {
		Vote string `json:"vote" binding:"required"`
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	direction, err := services.ParseVoteDirection(req.Vote)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.scoreService.Vote(userID, imageID, direction); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseImageID(c *gin.Context) (uint64, bool) {
	imageID, err := strconv.ParseUint(c.Param("image_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid image ID")
		return 0, false
	}
	return imageID, true
}
