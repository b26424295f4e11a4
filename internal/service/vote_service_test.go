package service

import (
	"context"
	"net/http"
	"testing"

	"housegig/internal/models"
	"housegig/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteService_Vote(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteService(repository.NewVoteRepository(db), repository.NewListingRepository(db))
	ctx := context.Background()

	owner := createUser(t, db)
	voter := createUser(t, db)
	listing := createListing(t, db, owner.ID)

	t.Run("Unknown vote type", func(t *testing.T) {
		err := svc.Vote(ctx, voter.ID, listing.ID, "sideways")
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("Unknown listing", func(t *testing.T) {
		err := svc.Vote(ctx, voter.ID, 9999, models.VoteTypeUpvote)
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("First vote succeeds", func(t *testing.T) {
		require.NoError(t, svc.Vote(ctx, voter.ID, listing.ID, models.VoteTypeUpvote))
	})

	t.Run("Repeat upvote conflicts with message", func(t *testing.T) {
		err := svc.Vote(ctx, voter.ID, listing.ID, models.VoteTypeUpvote)
		assertStatus(t, err, http.StatusConflict)
		assert.Contains(t, err.Error(), "Already upvoted")
	})

	t.Run("Switch then repeat downvote", func(t *testing.T) {
		require.NoError(t, svc.Vote(ctx, voter.ID, listing.ID, models.VoteTypeDownvote))
		err := svc.Vote(ctx, voter.ID, listing.ID, models.VoteTypeDownvote)
		assertStatus(t, err, http.StatusConflict)
		assert.Contains(t, err.Error(), "Already downvoted")
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		require.NoError(t, svc.RemoveVote(ctx, voter.ID, listing.ID))
		require.NoError(t, svc.RemoveVote(ctx, voter.ID, listing.ID))

		status, err := svc.GetVoteStatus(ctx, voter.ID, listing.ID)
		require.NoError(t, err)
		assert.Nil(t, status)
	})
}

// assertStatus checks that err is an AppError mapping to the given HTTP status.
func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, want, appErr.HTTPStatus())
}
