package service

import (
	"context"
	"errors"

	"housegig/internal/models"
	"housegig/internal/observability"
	"housegig/internal/repository"
	"housegig/internal/storage"
	"housegig/internal/validation"
)

const maxBioLen = 500

type UserService struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	store       storage.ObjectStore
}

type UpdateProfileInput struct {
	UserID   uint
	Username *string
	Bio      *string
}

func NewUserService(userRepo repository.UserRepository, listingRepo repository.ListingRepository, store storage.ObjectStore) *UserService {
	return &UserService{userRepo: userRepo, listingRepo: listingRepo, store: store}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, coerce(err, "User not found")
	}
	return user, nil
}

// GetProfileByUsername returns the public profile for a username.
func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User not found")
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.userRepo.GetByUsername(ctx, *in.Username)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if taken != nil {
			return nil, models.NewConflictError("Username already taken")
		}
		user.Username = *in.Username
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, models.NewConflictError("Username already taken")
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UploadAvatar normalizes the image, stores it, and points the user's
// avatar_url at the result.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, data []byte) (string, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	encoded, ext, err := storage.NormalizeImage(data)
	if err != nil {
		return "", models.NewValidationError("Unsupported or corrupt image file")
	}

	url, err := s.store.Upload(ctx, storage.AvatarPath(userID, ext), "image/webp", encoded)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user.AvatarURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", models.NewInternalError(err)
	}

	observability.UploadsProcessed.WithLabelValues("avatar").Inc()
	return url, nil
}

// DeleteAccount removes the user and all content keyed to them.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.DeleteAccount(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetUserListings returns a user's listings by username.
func (s *UserService) GetUserListings(ctx context.Context, username string, limit, offset int) ([]*models.Listing, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("User not found")
	}

	listings, err := s.listingRepo.GetByOwnerID(ctx, user.ID, clampLimit(limit, 20, 100), clampOffset(offset))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}
