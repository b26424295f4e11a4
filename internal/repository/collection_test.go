package repository

import (
	"context"
	"testing"

	"housegig/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionRepository_AddListing(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	listing := createTestListing(t, db, owner.ID)

	collection := &models.Collection{Name: "Favorites", OwnerID: owner.ID, IsPublic: true}
	require.NoError(t, collections.Create(ctx, collection))

	require.NoError(t, collections.AddListing(ctx, collection.ID, listing.ID))

	t.Run("Duplicate membership is rejected", func(t *testing.T) {
		err := collections.AddListing(ctx, collection.ID, listing.ID)
		assert.ErrorIs(t, err, ErrDuplicateListing)
	})

	t.Run("Listing count reflects membership", func(t *testing.T) {
		got, err := collections.GetByID(ctx, collection.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ListingCount)
	})

	t.Run("Remove then re-add succeeds", func(t *testing.T) {
		require.NoError(t, collections.RemoveListing(ctx, collection.ID, listing.ID))
		require.NoError(t, collections.AddListing(ctx, collection.ID, listing.ID))
	})
}

func TestCollectionRepository_ListByOwner(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	public := &models.Collection{Name: "Public picks", OwnerID: owner.ID, IsPublic: true}
	private := &models.Collection{Name: "Secret stash", OwnerID: owner.ID, IsPublic: false}
	require.NoError(t, collections.Create(ctx, public))
	require.NoError(t, collections.Create(ctx, private))

	t.Run("Owner sees private collections", func(t *testing.T) {
		got, err := collections.ListByOwner(ctx, owner.ID, true)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Visitors see only public collections", func(t *testing.T) {
		got, err := collections.ListByOwner(ctx, owner.ID, false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Public picks", got[0].Name)
	})
}

func TestCollectionRepository_ListByOwnerForListing(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	listing := createTestListing(t, db, owner.ID)

	withListing := &models.Collection{Name: "Has it", OwnerID: owner.ID, IsPublic: true}
	without := &models.Collection{Name: "Empty", OwnerID: owner.ID, IsPublic: false}
	require.NoError(t, collections.Create(ctx, withListing))
	require.NoError(t, collections.Create(ctx, without))
	require.NoError(t, collections.AddListing(ctx, withListing.ID, listing.ID))

	got, err := collections.ListByOwnerForListing(ctx, owner.ID, listing.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byName := map[string]*models.Collection{}
	for _, c := range got {
		byName[c.Name] = c
	}
	assert.True(t, byName["Has it"].HasListing)
	assert.False(t, byName["Empty"].HasListing)
}

func TestCollectionRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	listing := createTestListing(t, db, owner.ID)
	collection := &models.Collection{Name: "Doomed", OwnerID: owner.ID, IsPublic: true}
	require.NoError(t, collections.Create(ctx, collection))
	require.NoError(t, collections.AddListing(ctx, collection.ID, listing.ID))

	require.NoError(t, collections.Delete(ctx, collection.ID))

	var links int64
	require.NoError(t, db.Model(&models.CollectionListing{}).
		Where("collection_id = ?", collection.ID).
		Count(&links).Error)
	assert.Zero(t, links)

	// The listing itself survives.
	var count int64
	require.NoError(t, db.Model(&models.Listing{}).Where("id = ?", listing.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCollectionRepository_AttachCovers(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	collection := &models.Collection{Name: "Gallery", OwnerID: owner.ID, IsPublic: true}
	require.NoError(t, collections.Create(ctx, collection))

	for i := 0; i < 6; i++ {
		listing := createTestListing(t, db, owner.ID)
		require.NoError(t, db.Model(listing).Update("main_image_url", "https://img.example/"+listing.Title).Error)
		require.NoError(t, collections.AddListing(ctx, collection.ID, listing.ID))
	}

	list := []*models.Collection{collection}
	require.NoError(t, collections.AttachCovers(ctx, list))
	assert.Len(t, collection.CoverImages, 4)
}
