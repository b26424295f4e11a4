package service

import (
	"context"
	"errors"

	"housegig/internal/models"
	"housegig/internal/observability"
	"housegig/internal/repository"
)

type VoteService struct {
	voteRepo    repository.VoteRepository
	listingRepo repository.ListingRepository
}

func NewVoteService(voteRepo repository.VoteRepository, listingRepo repository.ListingRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, listingRepo: listingRepo}
}

// Vote records an upvote or downvote. Casting the same direction twice is a
// conflict; casting the opposite direction switches the vote.
func (s *VoteService) Vote(ctx context.Context, userID, listingID uint, voteType models.VoteType) error {
	if voteType != models.VoteTypeUpvote && voteType != models.VoteTypeDownvote {
		return models.NewValidationError("vote_type must be 'upvote' or 'downvote'")
	}
	if err := s.requireListing(ctx, listingID); err != nil {
		return err
	}

	err := s.voteRepo.Cast(ctx, userID, listingID, voteType)
	if errors.Is(err, repository.ErrSameVote) {
		observability.VotesCast.WithLabelValues(string(voteType), "duplicate").Inc()
		if voteType == models.VoteTypeUpvote {
			return models.NewConflictError("Already upvoted")
		}
		return models.NewConflictError("Already downvoted")
	}
	if err != nil {
		return models.NewInternalError(err)
	}

	observability.VotesCast.WithLabelValues(string(voteType), "recorded").Inc()
	return nil
}

// RemoveVote clears the user's vote. Removing a vote that does not exist
// still succeeds.
func (s *VoteService) RemoveVote(ctx context.Context, userID, listingID uint) error {
	if err := s.requireListing(ctx, listingID); err != nil {
		return err
	}
	if err := s.voteRepo.Remove(ctx, userID, listingID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetVoteStatus returns the user's current vote on the listing, or nil.
func (s *VoteService) GetVoteStatus(ctx context.Context, userID, listingID uint) (*models.VoteType, error) {
	if err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	status, err := s.voteRepo.Status(ctx, userID, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return status, nil
}

func (s *VoteService) GetVoteStats(ctx context.Context, listingID uint) (*models.VoteStats, error) {
	if err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	stats, err := s.voteRepo.Stats(ctx, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stats, nil
}

func (s *VoteService) requireListing(ctx context.Context, listingID uint) error {
	exists, err := s.listingRepo.Exists(ctx, listingID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !exists {
		return models.NewNotFoundError("Listing not found")
	}
	return nil
}
