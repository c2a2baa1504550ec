package dto

import (
	"time"

	"github.com/yukikurage/pickpic-api/internal/models"
)

// ImageDTO represents an image record in API responses
type ImageDTO struct {
	ID        uint64    `json:"id"`
	FileName  string    `json:"file_name"`
	Score     int       `json:"score"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	Owner     *UserDTO  `json:"owner,omitempty"`
}

// ToImageDTO converts an Image model to ImageDTO
func ToImageDTO(image models.Image, expandOwner bool) ImageDTO {
	dto := ImageDTO{
		ID:        image.ID,
		FileName:  image.FileName,
		Score:     image.Score,
		OwnerID:   image.OwnerID,
		CreatedAt: image.CreatedAt,
	}
	if expandOwner {
		owner := ToUserDTO(image.Owner)
		dto.Owner = &owner
	}
	return dto
}

// ContentDTO represents one gallery entry
type ContentDTO struct {
	ID      uint64    `json:"id"`
	EventID uint64    `json:"event_id"`
	Image   ImageDTO  `json:"image"`
	AddedAt time.Time `json:"added_at"`
}

// ToContentDTO converts an EventContent with the image loaded
func ToContentDTO(content models.EventContent) ContentDTO {
	return ContentDTO{
		ID:      content.ID,
		EventID: content.EventID,
		Image:   ToImageDTO(content.Image, false),
		AddedAt: content.CreatedAt,
	}
}

// ToContentDTOs converts a slice of gallery entries
func ToContentDTOs(contents []models.EventContent) []ContentDTO {
	dtos := make([]ContentDTO, len(contents))
	for i, c := range contents {
		dtos[i] = ToContentDTO(c)
	}
	return dtos
}
