package models

import (
	"time"
)

// VoteType is the direction of a vote on a listing.
type VoteType string

const (
	VoteTypeUpvote   VoteType = "upvote"
	VoteTypeDownvote VoteType = "downvote"
)

// Vote represents a user's vote on a listing.
// The combination of UserID and ListingID must be unique.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_listing" json:"user_id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_vote_user_listing" json:"listing_id"`
	VoteType  VoteType  `gorm:"not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Listing Listing `gorm:"foreignKey:ListingID" json:"-"`
}
