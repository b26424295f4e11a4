package repository

import (
	"context"
	"testing"

	"housegig/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "newcomer", Email: "newcomer@example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("Duplicate email rejected", func(t *testing.T) {
		dup := &models.User{Username: "other", Email: "newcomer@example.com", Password: "hash"}
		err := users.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("Duplicate username rejected", func(t *testing.T) {
		dup := &models.User{Username: "newcomer", Email: "other@example.com", Password: "hash"}
		err := users.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})
}

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	created := createTestUser(t, db)

	t.Run("GetByEmail returns nil for missing", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetByEmail finds the user", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, created.Email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("GetByUsername returns nil for missing", func(t *testing.T) {
		got, err := users.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetProfile omits credentials", func(t *testing.T) {
		profile, err := users.GetProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Username, profile.Username)
	})
}

func TestUserRepository_DeleteAccount(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	votes := NewVoteRepository(db)
	collections := NewCollectionRepository(db)
	ctx := context.Background()

	leaver := createTestUser(t, db)
	other := createTestUser(t, db)

	ownListing := createTestListing(t, db, leaver.ID)
	otherListing := createTestListing(t, db, other.ID)

	require.NoError(t, votes.Cast(ctx, leaver.ID, otherListing.ID, models.VoteTypeUpvote))
	createTestComment(t, db, leaver.ID, otherListing.ID, nil)

	collection := &models.Collection{Name: "Mine", OwnerID: leaver.ID, IsPublic: false}
	require.NoError(t, collections.Create(ctx, collection))
	require.NoError(t, collections.AddListing(ctx, collection.ID, otherListing.ID))

	chats := NewChatRepository(db)
	conv, err := chats.CreateDirectConversation(ctx, leaver.ID, other.ID)
	require.NoError(t, err)
	msg := &models.Message{ConversationID: conv.ID, SenderID: leaver.ID, Content: "bye"}
	require.NoError(t, chats.CreateMessage(ctx, msg))

	require.NoError(t, users.DeleteAccount(ctx, leaver.ID))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", leaver.ID).Count(&count).Error)
	assert.Zero(t, count, "user row removed")

	require.NoError(t, db.Model(&models.Listing{}).Where("id = ?", ownListing.ID).Count(&count).Error)
	assert.Zero(t, count, "owned listings removed")

	require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ?", leaver.ID).Count(&count).Error)
	assert.Zero(t, count, "votes removed")

	require.NoError(t, db.Model(&models.Collection{}).Where("owner_id = ?", leaver.ID).Count(&count).Error)
	assert.Zero(t, count, "collections removed")

	require.NoError(t, db.Model(&models.ConversationParticipant{}).Where("user_id = ?", leaver.ID).Count(&count).Error)
	assert.Zero(t, count, "conversation membership removed")

	// The other user's data is untouched and their message history survives.
	require.NoError(t, db.Model(&models.Listing{}).Where("id = ?", otherListing.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
