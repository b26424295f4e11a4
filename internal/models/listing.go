package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing represents a property design listed on the marketplace.
type Listing struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	Title            string   `gorm:"not null" json:"title"`
	Description      string   `gorm:"type:text" json:"description"`
	Region           string   `gorm:"index" json:"region"`
	PropertyType     string   `gorm:"index" json:"property_type"`
	MainImageURL     string   `json:"main_image_url"`
	GalleryImageURLs []string `gorm:"serializer:json" json:"gallery_image_urls"`
	Tags             []string `gorm:"serializer:json" json:"tags"`
	OwnerID          uint     `gorm:"not null;index" json:"owner_id"`
	Owner            *Profile `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	// Upvotes and Downvotes are persisted counters; they are only ever
	// mutated inside the same transaction as the vote row they describe.
	Upvotes   int `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int `gorm:"not null;default:0" json:"downvotes"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// VoteStats summarizes the vote rows for a listing. Values are derived by
// counting votes, not by reading the listing counters.
type VoteStats struct {
	Upvotes            int     `json:"upvotes"`
	Downvotes          int     `json:"downvotes"`
	TotalVotes         int     `json:"totalVotes"`
	ApprovalPercentage float64 `json:"approvalPercentage"`
}
