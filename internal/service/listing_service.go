package service

import (
	"context"

	"housegig/internal/models"
	"housegig/internal/observability"
	"housegig/internal/repository"
	"housegig/internal/storage"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
	maxGalleryImages  = 10
	maxTags           = 10
)

type ListingService struct {
	listingRepo repository.ListingRepository
	store       storage.ObjectStore
}

type CreateListingInput struct {
	OwnerID          uint
	Title            string
	Description      string
	Region           string
	PropertyType     string
	MainImageURL     string
	GalleryImageURLs []string
	Tags             []string
}

type UpdateListingInput struct {
	ListingID        uint
	UserID           uint
	Title            *string
	Description      *string
	Region           *string
	PropertyType     *string
	MainImageURL     *string
	GalleryImageURLs []string
	Tags             []string
}

func NewListingService(listingRepo repository.ListingRepository, store storage.ObjectStore) *ListingService {
	return &ListingService{listingRepo: listingRepo, store: store}
}

func validateListingFields(title, description string, gallery, tags []string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(description) > maxDescriptionLen {
		return models.NewValidationError("Description too long (max 5000 characters)")
	}
	if len(gallery) > maxGalleryImages {
		return models.NewValidationError("Too many gallery images (max 10)")
	}
	if len(tags) > maxTags {
		return models.NewValidationError("Too many tags (max 10)")
	}
	return nil
}

func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	if err := validateListingFields(in.Title, in.Description, in.GalleryImageURLs, in.Tags); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Title:            in.Title,
		Description:      in.Description,
		Region:           in.Region,
		PropertyType:     in.PropertyType,
		MainImageURL:     in.MainImageURL,
		GalleryImageURLs: in.GalleryImageURLs,
		Tags:             in.Tags,
		OwnerID:          in.OwnerID,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.GetListing(ctx, listing.ID)
}

func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, coerce(err, "Listing not found")
	}
	return listing, nil
}

func (s *ListingService) ListListings(ctx context.Context, filter repository.ListingFilter) ([]*models.Listing, error) {
	filter.Limit = clampLimit(filter.Limit, 20, 100)
	filter.Offset = clampOffset(filter.Offset)

	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (s *ListingService) GetListingsByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Listing, error) {
	listings, err := s.listingRepo.GetByOwnerID(ctx, ownerID, clampLimit(limit, 20, 100), clampOffset(offset))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (s *ListingService) GetUpvotedListings(ctx context.Context, userID uint, limit, offset int) ([]*models.Listing, error) {
	listings, err := s.listingRepo.GetUpvotedByUser(ctx, userID, clampLimit(limit, 20, 100), clampOffset(offset))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

// UpdateListing applies only the provided fields, and only when the caller
// owns the listing. The ownership condition is part of the UPDATE itself.
func (s *ListingService) UpdateListing(ctx context.Context, in UpdateListingInput) (*models.Listing, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		if err := validateListingFields(*in.Title, "", nil, nil); err != nil {
			return nil, err
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		if len(*in.Description) > maxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 5000 characters)")
		}
		updates["description"] = *in.Description
	}
	if in.Region != nil {
		updates["region"] = *in.Region
	}
	if in.PropertyType != nil {
		updates["property_type"] = *in.PropertyType
	}
	if in.MainImageURL != nil {
		updates["main_image_url"] = *in.MainImageURL
	}
	if in.GalleryImageURLs != nil {
		if len(in.GalleryImageURLs) > maxGalleryImages {
			return nil, models.NewValidationError("Too many gallery images (max 10)")
		}
		updates["gallery_image_urls"] = in.GalleryImageURLs
	}
	if in.Tags != nil {
		if len(in.Tags) > maxTags {
			return nil, models.NewValidationError("Too many tags (max 10)")
		}
		updates["tags"] = in.Tags
	}
	if len(updates) == 0 {
		return nil, models.NewValidationError("No fields to update")
	}

	rows, err := s.listingRepo.UpdateOwned(ctx, in.ListingID, in.UserID, updates)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == 0 {
		return nil, s.missingOrForbidden(ctx, in.ListingID)
	}

	return s.GetListing(ctx, in.ListingID)
}

func (s *ListingService) DeleteListing(ctx context.Context, listingID, userID uint) error {
	ownerID, err := s.listingRepo.OwnerOf(ctx, listingID)
	if err != nil {
		return coerce(err, "Listing not found")
	}
	if ownerID != userID {
		return models.NewForbiddenError("You can only delete your own listings")
	}
	if err := s.listingRepo.DeleteCascade(ctx, listingID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UploadImage normalizes the uploaded image to WebP and stores it, returning
// the public URL.
func (s *ListingService) UploadImage(ctx context.Context, data []byte) (string, error) {
	encoded, ext, err := storage.NormalizeImage(data)
	if err != nil {
		return "", models.NewValidationError("Unsupported or corrupt image file")
	}

	url, err := s.store.Upload(ctx, storage.ListingImagePath(ext), "image/webp", encoded)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	observability.UploadsProcessed.WithLabelValues("listing").Inc()
	return url, nil
}

// missingOrForbidden disambiguates a zero-row conditional update.
func (s *ListingService) missingOrForbidden(ctx context.Context, listingID uint) error {
	exists, err := s.listingRepo.Exists(ctx, listingID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !exists {
		return models.NewNotFoundError("Listing not found")
	}
	return models.NewForbiddenError("You can only update your own listings")
}
