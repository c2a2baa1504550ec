package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yukikurage/pickpic-api/internal/blobstore"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"github.com/yukikurage/pickpic-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrBadContentType   = errors.New("content type must be image/*")
	ErrEmptyUpload      = errors.New("upload body is empty")
	ErrContentConflict  = errors.New("image already belongs to this event")
	ErrContentNotFound  = errors.New("event-image pair not found")
	ErrBlobStoreFailure = errors.New("blob store operation failed")
)

// ImageService handles upload, download and gallery membership of images.
type ImageService struct {
	imageRepo repository.ImageRepository
	eventRepo repository.EventRepository
	scoreRepo repository.ScoreRepository
	store     blobstore.Store
}

// NewImageService creates a new ImageService.
func NewImageService(imageRepo repository.ImageRepository, eventRepo repository.EventRepository, scoreRepo repository.ScoreRepository, store blobstore.Store) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		eventRepo: eventRepo,
		scoreRepo: scoreRepo,
		store:     store,
	}
}

// Upload stores the file and adds it to the event's gallery. The blob write
// happens first and outside any database transaction; if it fails the request
// fails with no rows written, so a row never points at a missing file.
func (s *ImageService) Upload(ctx context.Context, eventID, uploaderID uint64, data []byte, contentType string) (*models.EventContent, error) {
	if !utils.IsImageContentType(contentType) {
		return nil, fmt.Errorf("%w: got %q", ErrBadContentType, contentType)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	key := utils.BlobKey(time.Now(), contentType)
	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobStoreFailure, err)
	}

	image := &models.Image{
		FileName: key,
		OwnerID:  uploaderID,
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}

	content := &models.EventContent{
		EventID: eventID,
		ImageID: image.ID,
	}
	if err := s.eventRepo.CreateContent(content); err != nil {
		return nil, fmt.Errorf("failed to add image to event: %w", err)
	}

	content.Image = *image
	return content, nil
}

// AddContent attaches an existing image to another event's gallery.
func (s *ImageService) AddContent(eventID, imageID uint64) (*models.EventContent, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to find image: %w", err)
	}

	if _, err := s.eventRepo.FindContent(eventID, imageID); err == nil {
		return nil, ErrContentConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check content: %w", err)
	}

	content := &models.EventContent{
		EventID: eventID,
		ImageID: imageID,
	}
	if err := s.eventRepo.CreateContent(content); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The unique (event, image) index catches duplicate races.
			return nil, ErrContentConflict
		}
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	content.Image = *image
	return content, nil
}

// RemoveContent takes the image out of the event's gallery. The image record,
// its score entries and the stored file go with it once no event references
// the image anymore.
func (s *ImageService) RemoveContent(ctx context.Context, eventID, imageID uint64) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to find image: %w", err)
	}

	orphaned, err := s.eventRepo.DeleteContent(eventID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return fmt.Errorf("failed to remove content: %w", err)
	}

	if orphaned {
		if err := s.imageRepo.Delete(imageID); err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}

		// Blob deletion is best-effort; a leftover file is preferable to a
		// row pointing at nothing.
		if err := s.store.Delete(ctx, image.FileName); err != nil {
			log.Printf("failed to delete blob %s for image %d: %v", image.FileName, imageID, err)
		}
	}

	return nil
}

// Download streams an image's stored bytes.
func (s *ImageService) Download(ctx context.Context, imageID uint64) ([]byte, string, error) {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", fmt.Errorf("failed to find image: %w", err)
	}

	data, contentType, err := s.store.Get(ctx, image.FileName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", ErrBlobStoreFailure, err)
	}

	return data, contentType, nil
}

// DownloadFromEvent streams an image only if it belongs to the event.
func (s *ImageService) DownloadFromEvent(ctx context.Context, eventID, imageID uint64) ([]byte, string, error) {
	if _, err := s.eventRepo.FindContent(eventID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrContentNotFound
		}
		return nil, "", fmt.Errorf("failed to check content: %w", err)
	}

	return s.Download(ctx, imageID)
}
