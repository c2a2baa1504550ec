package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidVote     = errors.New("vote must be 'upvote' or 'downvote'")
	ErrNoImagesInEvent = errors.New("event has no images")
)

// VoteDirection is a parsed vote.
type VoteDirection int

const (
	VoteUp   VoteDirection = 1
	VoteDown VoteDirection = -1
)

// ParseVoteDirection parses the wire form of a vote.
func ParseVoteDirection(raw string) (VoteDirection, error) {
	switch raw {
	case "upvote":
		return VoteUp, nil
	case "downvote":
		return VoteDown, nil
	default:
		return 0, ErrInvalidVote
	}
}

// ScoreService owns the per-user vote ledger and the views derived from it.
type ScoreService struct {
	scoreRepo repository.ScoreRepository
	imageRepo repository.ImageRepository
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
}

// NewScoreService creates a new ScoreService.
func NewScoreService(scoreRepo repository.ScoreRepository, imageRepo repository.ImageRepository, eventRepo repository.EventRepository, userRepo repository.UserRepository) *ScoreService {
	return &ScoreService{
		scoreRepo: scoreRepo,
		imageRepo: imageRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

// Vote applies the user's vote to the image. The stored contribution stays in
// [-1, 1]; repeating a direction past the bound does nothing. There is no
// un-vote: cancelling takes a vote in the opposite direction.
func (s *ScoreService) Vote(userID, imageID uint64, direction VoteDirection) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.imageRepo.FindByID(imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to find image: %w", err)
	}

	if err := s.scoreRepo.ApplyVote(userID, imageID, int(direction)); err != nil {
		return fmt.Errorf("failed to apply vote: %w", err)
	}

	return nil
}

// UnrankedImagesForUser lists the event's content the user has not voted on,
// in insertion order. It reflects the ledger as of the call, so a vote from
// the same caller immediately drops the image from the queue.
func (s *ScoreService) UnrankedImagesForUser(eventID, userID uint64) ([]models.EventContent, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	contents, err := s.scoreRepo.UnrankedForUser(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unranked images: %w", err)
	}

	return contents, nil
}

// HighestScoredImage returns the event's top image. Ties break toward the
// image added first.
func (s *ScoreService) HighestScoredImage(eventID uint64) (*models.Image, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	content, err := s.scoreRepo.HighestScored(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoImagesInEvent
		}
		return nil, fmt.Errorf("failed to find highest scored image: %w", err)
	}

	return &content.Image, nil
}
