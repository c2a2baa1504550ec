package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/pickpic-api/internal/blobstore"
	"github.com/yukikurage/pickpic-api/internal/identity"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"github.com/yukikurage/pickpic-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken           = errors.New("bearer token could not be verified")
	ErrUserNotFound           = errors.New("user not found")
	ErrUnknownSubject         = errors.New("no user exists for this subject")
	ErrEmailRequired          = errors.New("email is required")
	ErrDisplayNameRequired    = errors.New("display name is required")
	ErrNoProfilePicture       = errors.New("user has no profile picture")
	ErrBadPictureContentType  = errors.New("profile pictures must be image/jpeg or image/png")
	ErrProfilePictureUpstream = errors.New("profile picture storage failed")
)

// AuthService resolves external auth subjects to local users and manages
// user-level profile data.
type AuthService struct {
	userRepo      repository.UserRepository
	verifier      identity.Verifier
	store         blobstore.Store
	autoProvision bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, verifier identity.Verifier, store blobstore.Store, autoProvision bool) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		verifier:      verifier,
		store:         store,
		autoProvision: autoProvision,
	}
}

// AuthenticateInput carries the profile fields used when a subject is seen for
// the first time and a user record is provisioned.
type AuthenticateInput struct {
	Token       string
	DisplayName string
	Email       string
}

// Authenticate verifies the bearer token and returns the matching user,
// creating one on first sight when auto-provisioning is enabled.
func (s *AuthService) Authenticate(input AuthenticateInput) (*models.User, error) {
	subject, err := s.verifier.Verify(input.Token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByAuthSubject(subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.autoProvision {
		return nil, ErrUnknownSubject
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		// Fall back to the local part of the email address.
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	user = &models.User{
		AuthSubject: subject,
		DisplayName: displayName,
		Email:       email,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ResolveSubject maps a verified bearer token to a user id without
// provisioning. Used by the auth middleware on every request.
func (s *AuthService) ResolveSubject(token string) (*models.User, error) {
	subject, err := s.verifier.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByAuthSubject(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return user, nil
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput carries the mutable display fields. The auth subject is
// immutable and never updated here.
type UpdateUserInput struct {
	DisplayName *string
	Email       *string
}

// UpdateUser updates a user's display fields.
func (s *AuthService) UpdateUser(userID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, ErrDisplayNameRequired
		}
		user.DisplayName = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		user.Email = email
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// LookupUsersByEmail resolves each email to a user id. Unknown addresses come
// back as nil entries so callers can tell which invitees have no account yet.
func (s *AuthService) LookupUsersByEmail(emails []string) ([]*models.User, error) {
	users, err := s.userRepo.FindByEmails(emails)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}

	byEmail := make(map[string]*models.User, len(users))
	for i := range users {
		byEmail[users[i].Email] = &users[i]
	}

	resolved := make([]*models.User, len(emails))
	for i, email := range emails {
		resolved[i] = byEmail[email]
	}

	return resolved, nil
}

// profilePictureTypes lists the content types accepted for profile pictures.
var profilePictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// UploadProfilePicture stores a new profile picture and records its key. The
// blob write happens before the row update, so a storage failure leaves the
// user untouched.
func (s *AuthService) UploadProfilePicture(ctx context.Context, userID uint64, data []byte, contentType string) error {
	if !profilePictureTypes[contentType] {
		return ErrBadPictureContentType
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	key := utils.BlobKey(time.Now(), contentType)
	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("%w: %v", ErrProfilePictureUpstream, err)
	}

	user.ProfilePicture = key
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to record profile picture: %w", err)
	}

	return nil
}

// GetProfilePicture streams the user's profile picture bytes.
func (s *AuthService) GetProfilePicture(ctx context.Context, userID uint64) ([]byte, string, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, "", err
	}

	if user.ProfilePicture == "" {
		return nil, "", ErrNoProfilePicture
	}

	data, contentType, err := s.store.Get(ctx, user.ProfilePicture)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, "", ErrNoProfilePicture
		}
		return nil, "", fmt.Errorf("%w: %v", ErrProfilePictureUpstream, err)
	}

	return data, contentType, nil
}
