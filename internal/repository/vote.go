package repository

import (
	"context"
	"errors"

	"housegig/internal/cache"
	"housegig/internal/models"

	"gorm.io/gorm"
)

// ErrSameVote is returned by Cast when the user already has a vote of the
// requested type on the listing.
var ErrSameVote = errors.New("vote already recorded")

// VoteRepository defines the interface for vote ledger operations
type VoteRepository interface {
	Cast(ctx context.Context, userID, listingID uint, voteType models.VoteType) error
	Remove(ctx context.Context, userID, listingID uint) error
	Status(ctx context.Context, userID, listingID uint) (*models.VoteType, error)
	Stats(ctx context.Context, listingID uint) (*models.VoteStats, error)
}

// voteRepository implements VoteRepository
type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func counterColumn(voteType models.VoteType) string {
	if voteType == models.VoteTypeUpvote {
		return "upvotes"
	}
	return "downvotes"
}

// Cast records or switches a vote. The vote row and the listing counters
// always change in the same transaction so they cannot drift.
func (r *voteRepository) Cast(ctx context.Context, userID, listingID uint, voteType models.VoteType) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error
		switch {
		case err == nil:
			if existing.VoteType == voteType {
				return ErrSameVote
			}
			// Switch direction: flip the row and move one count across.
			if err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Update("vote_type", voteType).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Listing{}).
				Where("id = ?", listingID).
				Update(counterColumn(existing.VoteType), gorm.Expr(counterColumn(existing.VoteType)+" - 1")).Error; err != nil {
				return err
			}
			return tx.Model(&models.Listing{}).
				Where("id = ?", listingID).
				Update(counterColumn(voteType), gorm.Expr(counterColumn(voteType)+" + 1")).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				UserID:    userID,
				ListingID: listingID,
				VoteType:  voteType,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return tx.Model(&models.Listing{}).
				Where("id = ?", listingID).
				Update(counterColumn(voteType), gorm.Expr(counterColumn(voteType)+" + 1")).Error

		default:
			return err
		}
	})
	if err == nil {
		cache.InvalidateListing(ctx, listingID)
	}
	return err
}

// Remove deletes the user's vote if one exists and decrements the matching
// counter. Removing a non-existent vote is a no-op.
func (r *voteRepository) Remove(ctx context.Context, userID, listingID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Listing{}).
			Where("id = ?", listingID).
			Update(counterColumn(existing.VoteType), gorm.Expr(counterColumn(existing.VoteType)+" - 1")).Error
	})
	if err == nil {
		cache.InvalidateListing(ctx, listingID)
	}
	return err
}

func (r *voteRepository) Status(ctx context.Context, userID, listingID uint) (*models.VoteType, error) {
	var vote models.Vote
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote.VoteType, nil
}

// Stats derives counts from the vote rows rather than trusting the listing
// counters.
func (r *voteRepository) Stats(ctx context.Context, listingID uint) (*models.VoteStats, error) {
	type row struct {
		VoteType models.VoteType
		Count    int
	}
	var rows []row
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Vote{}).
		Select("vote_type, COUNT(*) as count").
		Where("listing_id = ?", listingID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.VoteStats{}
	for _, row := range rows {
		switch row.VoteType {
		case models.VoteTypeUpvote:
			stats.Upvotes = row.Count
		case models.VoteTypeDownvote:
			stats.Downvotes = row.Count
		}
	}
	stats.TotalVotes = stats.Upvotes + stats.Downvotes
	if stats.TotalVotes > 0 {
		stats.ApprovalPercentage = float64(stats.Upvotes) / float64(stats.TotalVotes) * 100
	}
	return stats, nil
}
