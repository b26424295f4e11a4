// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"housegig/internal/cache"
	"housegig/internal/models"

	"gorm.io/gorm"
)

// ListingFilter holds query parameters for listing searches.
type ListingFilter struct {
	Search       string
	PropertyType string
	SortBy       string
	Limit        int
	Offset       int
}

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]*models.Listing, error)
	GetByOwnerID(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Listing, error)
	GetUpvotedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Listing, error)
	UpdateOwned(ctx context.Context, id, ownerID uint, updates map[string]interface{}) (int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	OwnerOf(ctx context.Context, id uint) (uint, error)
	DeleteCascade(ctx context.Context, id uint) error
}

// listingRepository implements ListingRepository
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	err := r.db.WithContext(ctx).Create(listing).Error
	if err == nil {
		cache.InvalidateListingsList(ctx)
	}
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.applyListingDetails(readDB(r.db).WithContext(ctx)).
		Preload("Owner").
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter) ([]*models.Listing, error) {
	var listings []*models.Listing
	base := r.applyListingDetails(readDB(r.db).WithContext(ctx)).
		Preload("Owner")

	if filter.Search != "" {
		// LOWER + LIKE rather than ILIKE so the predicate runs on both
		// postgres and the sqlite test stack.
		like := "%" + filter.Search + "%"
		base = base.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(region) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			like, like, like,
		)
	}
	if filter.PropertyType != "" {
		base = base.Where("property_type = ?", filter.PropertyType)
	}

	err := r.applySort(base, filter.SortBy).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
func (r *listingRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "oldest":
		return db.Order("listings.created_at ASC")
	case "most_liked":
		return db.Order("listings.upvotes DESC, listings.created_at DESC")
	default: // "newest", "created_at" and anything unrecognized
		return db.Order("listings.created_at DESC")
	}
}

func (r *listingRepository) GetByOwnerID(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.applyListingDetails(readDB(r.db).WithContext(ctx)).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("listings.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) GetUpvotedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.applyListingDetails(readDB(r.db).WithContext(ctx)).
		Preload("Owner").
		Joins("JOIN votes ON votes.listing_id = listings.id").
		Where("votes.user_id = ? AND votes.vote_type = ?", userID, models.VoteTypeUpvote).
		Order("votes.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// applyListingDetails adds subqueries to fetch comment counts in a single query.
func (r *listingRepository) applyListingDetails(db *gorm.DB) *gorm.DB {
	return db.Select("listings.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.listing_id = listings.id AND comments.deleted_at IS NULL) as comments_count")
}

// UpdateOwned applies updates only when the listing belongs to ownerID and
// returns the number of rows affected. Zero rows means missing or not owned;
// callers disambiguate with Exists/OwnerOf.
func (r *listingRepository) UpdateOwned(ctx context.Context, id, ownerID uint, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateListing(ctx, id)
		cache.InvalidateListingsList(ctx)
	}
	return result.RowsAffected, nil
}

func (r *listingRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *listingRepository) OwnerOf(ctx context.Context, id uint) (uint, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&listing, id).Error; err != nil {
		return 0, err
	}
	return listing.OwnerID, nil
}

// DeleteCascade removes the listing together with its votes, comments,
// comment likes and collection memberships in a single transaction.
func (r *listingRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE listing_id = ?)`,
			id,
		).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("listing_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.CollectionListing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Listing{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateListing(ctx, id)
	cache.InvalidateListingsList(ctx)
	return nil
}
