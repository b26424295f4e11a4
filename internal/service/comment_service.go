package service

import (
	"context"
	"errors"

	"housegig/internal/models"
	"housegig/internal/repository"
)

const maxCommentLen = 2000

type CommentService struct {
	commentRepo repository.CommentRepository
	listingRepo repository.ListingRepository
}

type CreateCommentInput struct {
	UserID    uint
	ListingID uint
	Content   string
	ParentID  *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

func NewCommentService(commentRepo repository.CommentRepository, listingRepo repository.ListingRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, listingRepo: listingRepo}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	exists, err := s.listingRepo.Exists(ctx, in.ListingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Listing not found")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, coerce(err, "Parent comment not found")
		}
		if parent.ListingID != in.ListingID {
			return nil, models.NewValidationError("Parent comment belongs to a different listing")
		}
		// One level deep only: no replies to replies.
		if parent.ParentID != nil {
			return nil, models.NewValidationError("Replies cannot be nested")
		}
	}

	comment := &models.Comment{
		Content:   in.Content,
		UserID:    in.UserID,
		ListingID: in.ListingID,
		ParentID:  in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, listingID, currentUserID uint, limit, offset int) ([]*models.Comment, error) {
	exists, err := s.listingRepo.Exists(ctx, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Listing not found")
	}

	comments, err := s.commentRepo.ListByListing(ctx, listingID, currentUserID, clampLimit(limit, 50, 100), clampOffset(offset))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (s *CommentService) ListReplies(ctx context.Context, parentID, currentUserID uint) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, parentID); err != nil {
		return nil, coerce(err, "Comment not found")
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentID, currentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, coerce(err, "Comment not found")
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return coerce(err, "Comment not found")
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// LikeComment records a like; liking twice is a conflict.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return coerce(err, "Comment not found")
	}

	err := s.commentRepo.Like(ctx, userID, commentID)
	if errors.Is(err, repository.ErrAlreadyLiked) {
		return models.NewConflictError("Comment already liked")
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UnlikeComment removes a like; unliking a comment that was never liked
// still succeeds.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return coerce(err, "Comment not found")
	}
	if err := s.commentRepo.Unlike(ctx, userID, commentID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
