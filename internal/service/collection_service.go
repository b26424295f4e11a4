package service

import (
	"context"
	"errors"

	"housegig/internal/models"
	"housegig/internal/repository"
)

const maxCollectionNameLen = 100

type CollectionService struct {
	collectionRepo repository.CollectionRepository
	listingRepo    repository.ListingRepository
}

type CreateCollectionInput struct {
	OwnerID     uint
	Name        string
	Description string
	IsPublic    bool
}

type UpdateCollectionInput struct {
	CollectionID uint
	UserID       uint
	Name         *string
	Description  *string
	IsPublic     *bool
}

func NewCollectionService(collectionRepo repository.CollectionRepository, listingRepo repository.ListingRepository) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo, listingRepo: listingRepo}
}

func (s *CollectionService) CreateCollection(ctx context.Context, in CreateCollectionInput) (*models.Collection, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(in.Name) > maxCollectionNameLen {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}

	collection := &models.Collection{
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		OwnerID:     in.OwnerID,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, models.NewInternalError(err)
	}
	return collection, nil
}

// GetCollection returns the collection if the requester may see it. A private
// collection is reported as missing to anyone but its owner.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID, requesterID uint) (*models.Collection, error) {
	collection, err := s.visibleCollection(ctx, collectionID, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.AttachCovers(ctx, []*models.Collection{collection}); err != nil {
		return nil, models.NewInternalError(err)
	}
	return collection, nil
}

// ListUserCollections returns a user's collections; private ones only when
// the requester is that user.
func (s *CollectionService) ListUserCollections(ctx context.Context, ownerID, requesterID uint) ([]*models.Collection, error) {
	collections, err := s.collectionRepo.ListByOwner(ctx, ownerID, ownerID == requesterID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.collectionRepo.AttachCovers(ctx, collections); err != nil {
		return nil, models.NewInternalError(err)
	}
	return collections, nil
}

// ListCollectionsForListing returns the requester's own collections annotated
// with whether the listing is already saved in each.
func (s *CollectionService) ListCollectionsForListing(ctx context.Context, requesterID, listingID uint) ([]*models.Collection, error) {
	exists, err := s.listingRepo.Exists(ctx, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Listing not found")
	}

	collections, err := s.collectionRepo.ListByOwnerForListing(ctx, requesterID, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collections, nil
}

func (s *CollectionService) UpdateCollection(ctx context.Context, in UpdateCollectionInput) (*models.Collection, error) {
	collection, err := s.ownedCollection(ctx, in.CollectionID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, models.NewValidationError("Name is required")
		}
		if len(*in.Name) > maxCollectionNameLen {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		collection.Name = *in.Name
	}
	if in.Description != nil {
		collection.Description = *in.Description
	}
	if in.IsPublic != nil {
		collection.IsPublic = *in.IsPublic
	}

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, models.NewInternalError(err)
	}
	return collection, nil
}

func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID, userID uint) error {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	if err := s.collectionRepo.Delete(ctx, collectionID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddListing saves a listing into the caller's collection. Saving the same
// listing twice is a conflict.
func (s *CollectionService) AddListing(ctx context.Context, collectionID, listingID, userID uint) error {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return err
	}

	exists, err := s.listingRepo.Exists(ctx, listingID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !exists {
		return models.NewNotFoundError("Listing not found")
	}

	err = s.collectionRepo.AddListing(ctx, collectionID, listingID)
	if errors.Is(err, repository.ErrDuplicateListing) {
		return models.NewConflictError("Listing already in collection")
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *CollectionService) RemoveListing(ctx context.Context, collectionID, listingID, userID uint) error {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	if err := s.collectionRepo.RemoveListing(ctx, collectionID, listingID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListListings returns the listings saved in a collection the requester may
// see.
func (s *CollectionService) ListListings(ctx context.Context, collectionID, requesterID uint, limit, offset int) ([]*models.Listing, error) {
	if _, err := s.visibleCollection(ctx, collectionID, requesterID); err != nil {
		return nil, err
	}
	listings, err := s.collectionRepo.ListingsIn(ctx, collectionID, clampLimit(limit, 20, 100), clampOffset(offset))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

// visibleCollection hides private collections from non-owners behind a 404 so
// their existence leaks nothing.
func (s *CollectionService) visibleCollection(ctx context.Context, collectionID, requesterID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, coerce(err, "Collection not found")
	}
	if !collection.IsPublic && collection.OwnerID != requesterID {
		return nil, models.NewNotFoundError("Collection not found")
	}
	return collection, nil
}

// ownedCollection resolves write access: non-owners of private collections
// get a 404, non-owners of public ones a 403.
func (s *CollectionService) ownedCollection(ctx context.Context, collectionID, userID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, coerce(err, "Collection not found")
	}
	if collection.OwnerID != userID {
		if !collection.IsPublic {
			return nil, models.NewNotFoundError("Collection not found")
		}
		return nil, models.NewForbiddenError("You can only modify your own collections")
	}
	return collection, nil
}
