package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pickpic-api/internal/constants"
	"github.com/yukikurage/pickpic-api/internal/dto"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/services"
)

func setupImageTestEnv(t *testing.T) (eventTestEnv, *ImageHandler) {
	t.Helper()

	env := setupEventTestEnv(t)
	return env, NewImageHandler(env.imageService, env.eventService, env.scoreService)
}

// rawUploadContext builds a context whose body is raw file bytes rather than
// JSON.
func rawUploadContext(url string, data []byte, contentType string, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", contentType)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func TestImageHandler_Upload(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images", event.ID)
	c, w := rawUploadContext(url, []byte("jpeg-bytes"), "image/jpeg", owner.ID)
	setContextEvent(c, *event)

	handler.Upload(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ContentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, event.ID, response.EventID)
	require.Equal(t, owner.ID, response.Image.OwnerID)
	require.NotEmpty(t, response.Image.FileName)

	require.Equal(t, 1, env.store.Len())
}

func TestImageHandler_Upload_BadContentType(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images", event.ID)
	c, w := rawUploadContext(url, []byte("not an image"), "text/plain", owner.ID)
	setContextEvent(c, *event)

	handler.Upload(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	// A rejected upload leaves nothing behind, no rows and no blobs.
	var count int64
	require.NoError(t, env.db.Model(&models.Image{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.EventContent{}).Count(&count).Error)
	require.Zero(t, count)
	require.Zero(t, env.store.Len())
}

func TestImageHandler_Upload_BlobStoreFailure(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	env.store.FailPuts = true

	url := fmt.Sprintf("/api/events/%d/images", event.ID)
	c, w := rawUploadContext(url, []byte("jpeg-bytes"), "image/jpeg", owner.ID)
	setContextEvent(c, *event)

	handler.Upload(c)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Image{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.EventContent{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestImageHandler_Vote_ClampsAndAggregates(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	voter := createEventTestUser(t, env.db, "voter")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	content, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("pic"), "image/jpeg")
	require.NoError(t, err)

	vote := func(userID uint64, direction string) int {
		body, err := json.Marshal(map[string]string{"vote": direction})
		require.NoError(t, err)

		url := fmt.Sprintf("/api/events/%d/images/%d/vote", event.ID, content.ImageID)
		c, w := eventTestContext(http.MethodPut, url, body, userID)
		setContextEvent(c, *event)
		c.Params = append(c.Params, paramImageID(content.ImageID))

		handler.Vote(c)
		c.Writer.WriteHeaderNow()
		return w.Code
	}

	imageScore := func() int {
		var image models.Image
		require.NoError(t, env.db.First(&image, content.ImageID).Error)
		return image.Score
	}

	// Repeating a direction past the bound is a no-op, not an error.
	require.Equal(t, http.StatusNoContent, vote(owner.ID, "upvote"))
	require.Equal(t, 1, imageScore())
	require.Equal(t, http.StatusNoContent, vote(owner.ID, "upvote"))
	require.Equal(t, 1, imageScore())

	require.Equal(t, http.StatusNoContent, vote(voter.ID, "upvote"))
	require.Equal(t, 2, imageScore())

	// Opposite votes walk the contribution back down through zero to -1.
	require.Equal(t, http.StatusNoContent, vote(owner.ID, "downvote"))
	require.Equal(t, 1, imageScore())
	require.Equal(t, http.StatusNoContent, vote(owner.ID, "downvote"))
	require.Equal(t, 0, imageScore())
	require.Equal(t, http.StatusNoContent, vote(owner.ID, "downvote"))
	require.Equal(t, 0, imageScore())

	// The cached score always equals the exact ledger sum.
	sum, err := env.scoreRepo.SumForImage(content.ImageID)
	require.NoError(t, err)
	require.Equal(t, sum, imageScore())
}

func TestImageHandler_Vote_InvalidDirection(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	content, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("pic"), "image/jpeg")
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"vote": "sideways"})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images/%d/vote", event.ID, content.ImageID)
	c, w := eventTestContext(http.MethodPut, url, body, owner.ID)
	setContextEvent(c, *event)
	c.Params = append(c.Params, paramImageID(content.ImageID))

	handler.Vote(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageHandler_TopImage_TieBreaksOnInsertionOrder(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	first, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("first-bytes"), "image/jpeg")
	require.NoError(t, err)
	second, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("second-bytes"), "image/jpeg")
	require.NoError(t, err)

	// Both images end on the same score; the earlier gallery entry wins.
	require.NoError(t, env.scoreService.Vote(owner.ID, first.ImageID, services.VoteUp))
	require.NoError(t, env.scoreService.Vote(owner.ID, second.ImageID, services.VoteUp))

	url := fmt.Sprintf("/api/events/%d/images/top", event.ID)
	c, w := eventTestContext(http.MethodGet, url, nil, owner.ID)
	setContextEvent(c, *event)

	handler.TopImage(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "first-bytes", w.Body.String())
	require.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
}

func TestImageHandler_TopImage_EmptyEvent(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Empty", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images/top", event.ID)
	c, w := eventTestContext(http.MethodGet, url, nil, owner.ID)
	setContextEvent(c, *event)

	handler.TopImage(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageHandler_Unranked_ExcludesVotedImages(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	voted, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("voted"), "image/jpeg")
	require.NoError(t, err)
	unvoted, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("unvoted"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, env.scoreService.Vote(owner.ID, voted.ImageID, services.VoteDown))

	url := fmt.Sprintf("/api/events/%d/images/unranked", event.ID)
	c, w := eventTestContext(http.MethodGet, url, nil, owner.ID)
	setContextEvent(c, *event)

	handler.Unranked(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.ContentDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	images := response["images"]
	require.Len(t, images, 1)
	require.Equal(t, unvoted.ImageID, images[0].Image.ID)
}

func TestImageHandler_ListContent_SortByScore(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	low, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("low"), "image/jpeg")
	require.NoError(t, err)
	high, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("high"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, env.scoreService.Vote(owner.ID, high.ImageID, services.VoteUp))
	require.NoError(t, env.scoreService.Vote(owner.ID, low.ImageID, services.VoteDown))

	url := fmt.Sprintf("/api/events/%d/images?sort=score+desc", event.ID)
	c, w := eventTestContext(http.MethodGet, url, nil, owner.ID)
	setContextEvent(c, *event)

	handler.ListContent(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Images []dto.ContentDTO `json:"images"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Images, 2)
	require.Equal(t, high.ImageID, response.Images[0].Image.ID)
	require.Equal(t, low.ImageID, response.Images[1].Image.ID)
}

func TestImageHandler_ListContent_InvalidSort(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images?sort=owner_id+desc", event.ID)
	c, w := eventTestContext(http.MethodGet, url, nil, owner.ID)
	setContextEvent(c, *event)

	handler.ListContent(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageHandler_Download_NotInEvent(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")

	gallery, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)
	other, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Other", OwnerID: owner.ID})
	require.NoError(t, err)

	content, err := env.imageService.Upload(context.Background(), gallery.ID, owner.ID, []byte("pic"), "image/jpeg")
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images/%d", other.ID, content.ImageID)
	c, w := eventTestContext(http.MethodGet, url, nil, owner.ID)
	setContextEvent(c, *other)
	c.Params = append(c.Params, paramImageID(content.ImageID))

	handler.Download(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageHandler_RemoveContent_DeletesOrphanedImage(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Gallery", OwnerID: owner.ID})
	require.NoError(t, err)

	content, err := env.imageService.Upload(context.Background(), event.ID, owner.ID, []byte("pic"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, env.scoreService.Vote(owner.ID, content.ImageID, services.VoteUp))

	url := fmt.Sprintf("/api/events/%d/images/%d", event.ID, content.ImageID)
	c, w := eventTestContext(http.MethodDelete, url, nil, owner.ID)
	setContextEvent(c, *event)
	c.Params = append(c.Params, paramImageID(content.ImageID))

	handler.RemoveContent(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusAccepted, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.EventContent{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.Image{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, env.db.Model(&models.ScoreEntry{}).Count(&count).Error)
	require.Zero(t, count)
	require.Zero(t, env.store.Len())
}

func TestImageHandler_RemoveContent_SharedImageSurvives(t *testing.T) {
	env, handler := setupImageTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")

	first, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "First", OwnerID: owner.ID})
	require.NoError(t, err)
	second, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Second", OwnerID: owner.ID})
	require.NoError(t, err)

	content, err := env.imageService.Upload(context.Background(), first.ID, owner.ID, []byte("shared"), "image/jpeg")
	require.NoError(t, err)
	_, err = env.imageService.AddContent(second.ID, content.ImageID)
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/images/%d", first.ID, content.ImageID)
	c, w := eventTestContext(http.MethodDelete, url, nil, owner.ID)
	setContextEvent(c, *first)
	c.Params = append(c.Params, paramImageID(content.ImageID))

	handler.RemoveContent(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusAccepted, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Image{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
