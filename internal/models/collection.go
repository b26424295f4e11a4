package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection represents a user-curated set of listings. Private collections
// are invisible to everyone but their owner.
type Collection struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `json:"description"`
	IsPublic    bool     `gorm:"not null;default:false" json:"is_public"`
	OwnerID     uint     `gorm:"not null;index" json:"owner_id"`
	Owner       *Profile `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	// ListingCount is not persisted; computed at query time
	ListingCount int `gorm:"->" json:"listing_count"`
	// CoverImages holds up to four listing image URLs for preview rendering (computed)
	CoverImages []string `gorm:"-" json:"cover_images,omitempty"`
	// HasListing reports membership of a specific listing in for-listing queries (computed)
	HasListing bool           `gorm:"->" json:"has_listing,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CollectionListing links a listing into a collection.
// The combination of CollectionID and ListingID must be unique.
type CollectionListing struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_listing" json:"collection_id"`
	ListingID    uint      `gorm:"not null;uniqueIndex:idx_collection_listing" json:"listing_id"`
	CreatedAt    time.Time `json:"created_at"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"-"`
}
