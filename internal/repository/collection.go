package repository

import (
	"context"
	"errors"

	"housegig/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateListing is returned by AddListing when the listing is already a
// member of the collection.
var ErrDuplicateListing = errors.New("listing already in collection")

// CollectionRepository defines the interface for collection data operations
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	ListByOwner(ctx context.Context, ownerID uint, includePrivate bool) ([]*models.Collection, error)
	ListByOwnerForListing(ctx context.Context, ownerID, listingID uint) ([]*models.Collection, error)
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	AddListing(ctx context.Context, collectionID, listingID uint) error
	RemoveListing(ctx context.Context, collectionID, listingID uint) error
	ListingsIn(ctx context.Context, collectionID uint, limit, offset int) ([]*models.Listing, error)
	AttachCovers(ctx context.Context, collections []*models.Collection) error
}

// collectionRepository implements CollectionRepository
type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

// applyCollectionDetails adds the listing_count subquery.
func (r *collectionRepository) applyCollectionDetails(db *gorm.DB) *gorm.DB {
	return db.Select("collections.*, " +
		"(SELECT COUNT(*) FROM collection_listings WHERE collection_listings.collection_id = collections.id) as listing_count")
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.applyCollectionDetails(readDB(r.db).WithContext(ctx)).
		Preload("Owner").
		First(&collection, id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) ListByOwner(ctx context.Context, ownerID uint, includePrivate bool) ([]*models.Collection, error) {
	var collections []*models.Collection
	query := r.applyCollectionDetails(readDB(r.db).WithContext(ctx)).
		Where("owner_id = ?", ownerID)
	if !includePrivate {
		query = query.Where("is_public = ?", true)
	}
	err := query.Order("created_at DESC").Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// ListByOwnerForListing annotates each of the owner's collections with
// whether the given listing is already a member.
func (r *collectionRepository) ListByOwnerForListing(ctx context.Context, ownerID, listingID uint) ([]*models.Collection, error) {
	var collections []*models.Collection
	err := readDB(r.db).WithContext(ctx).
		Select("collections.*, "+
			"(SELECT COUNT(*) FROM collection_listings WHERE collection_listings.collection_id = collections.id) as listing_count, "+
			"EXISTS(SELECT 1 FROM collection_listings WHERE collection_listings.collection_id = collections.id AND collection_listings.listing_id = ?) as has_listing",
			listingID).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionListing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, id).Error
	})
}

func (r *collectionRepository) AddListing(ctx context.Context, collectionID, listingID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CollectionListing{}).
			Where("collection_id = ? AND listing_id = ?", collectionID, listingID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateListing
		}
		link := models.CollectionListing{CollectionID: collectionID, ListingID: listingID}
		return tx.Create(&link).Error
	})
}

func (r *collectionRepository) RemoveListing(ctx context.Context, collectionID, listingID uint) error {
	return r.db.WithContext(ctx).
		Where("collection_id = ? AND listing_id = ?", collectionID, listingID).
		Delete(&models.CollectionListing{}).Error
}

func (r *collectionRepository) ListingsIn(ctx context.Context, collectionID uint, limit, offset int) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := readDB(r.db).WithContext(ctx).
		Select("listings.*").
		Joins("JOIN collection_listings cl ON cl.listing_id = listings.id").
		Where("cl.collection_id = ?", collectionID).
		Order("cl.created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Owner").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// AttachCovers fills CoverImages with up to four listing image URLs per
// collection for preview rendering.
func (r *collectionRepository) AttachCovers(ctx context.Context, collections []*models.Collection) error {
	for _, collection := range collections {
		var urls []string
		err := readDB(r.db).WithContext(ctx).
			Model(&models.Listing{}).
			Joins("JOIN collection_listings cl ON cl.listing_id = listings.id").
			Where("cl.collection_id = ? AND listings.main_image_url <> ''", collection.ID).
			Order("cl.created_at DESC").
			Limit(4).
			Pluck("listings.main_image_url", &urls).Error
		if err != nil {
			return err
		}
		collection.CoverImages = urls
	}
	return nil
}
