package repository

import (
	"context"
	"errors"

	"housegig/internal/cache"
	"housegig/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadyLiked is returned by Like when the user already liked the comment.
var ErrAlreadyLiked = errors.New("comment already liked")

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByListing(ctx context.Context, listingID uint, currentUserID uint, limit, offset int) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID uint, currentUserID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, commentID uint) error
	Unlike(ctx context.Context, userID, commentID uint) error
	IsLiked(ctx context.Context, userID, commentID uint) (bool, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidateListing(ctx, comment.ListingID)
	// Reload with the author profile for the 201 response body.
	return r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := readDB(r.db).WithContext(ctx).
		Preload("User").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// applyCommentDetails adds the liked subquery for the requesting user.
func (r *commentRepository) applyCommentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"comments.*, EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) as liked",
			currentUserID,
		)
	}
	return db.Select("comments.*, false as liked")
}

func (r *commentRepository) ListByListing(ctx context.Context, listingID uint, currentUserID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyCommentDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("listing_id = ? AND parent_id IS NULL", listingID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID uint, currentUserID uint) ([]*models.Comment, error) {
	var replies []*models.Comment
	err := r.applyCommentDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete soft-deletes the comment. Replies are intentionally left in place;
// they become unreachable through the reply listing of a deleted parent.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

// Like inserts the like row and bumps likes_count in one transaction.
func (r *commentRepository) Like(ctx context.Context, userID, commentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CommentLike{}).
			Where("user_id = ? AND comment_id = ?", userID, commentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyLiked
		}
		like := models.CommentLike{UserID: userID, CommentID: commentID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// Unlike removes the like row if present. Unliking a comment that was never
// liked is a no-op.
func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

func (r *commentRepository) IsLiked(ctx context.Context, userID, commentID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
