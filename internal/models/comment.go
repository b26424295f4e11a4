package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a listing. A comment with a non-nil
// ParentID is a reply; replies may not themselves have replies.
type Comment struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Content   string   `gorm:"not null" json:"content"`
	UserID    uint     `gorm:"not null;index" json:"user_id"`
	ListingID uint     `gorm:"not null;index" json:"listing_id"`
	ParentID  *uint    `gorm:"index" json:"parent_id,omitempty"`
	User      *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// LikesCount is persisted and adjusted in the same transaction as the
	// comment_likes row it describes.
	LikesCount int `gorm:"not null;default:0" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this comment (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentLike represents a user's like on a comment.
// The combination of UserID and CommentID must be unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like_user" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_user" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
