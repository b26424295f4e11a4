package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"housegig/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingService_CreateListing(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	svc := NewListingService(repository.NewListingRepository(db), store)
	ctx := context.Background()

	owner := createUser(t, db)

	t.Run("Title required", func(t *testing.T) {
		_, err := svc.CreateListing(ctx, CreateListingInput{OwnerID: owner.ID})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("Title length capped", func(t *testing.T) {
		_, err := svc.CreateListing(ctx, CreateListingInput{
			OwnerID: owner.ID, Title: strings.Repeat("x", 201),
		})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("Valid listing round-trips with owner", func(t *testing.T) {
		created, err := svc.CreateListing(ctx, CreateListingInput{
			OwnerID:      owner.ID,
			Title:        "Lakeside retreat",
			Description:  "Calm water views",
			Region:       "Lakelands",
			PropertyType: "cabin",
			Tags:         []string{"rustic", "lake"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"rustic", "lake"}, created.Tags)
		require.NotNil(t, created.Owner)
		assert.Equal(t, owner.Username, created.Owner.Username)
	})
}

func TestListingService_UpdateListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db), &fakeStore{})
	ctx := context.Background()

	owner := createUser(t, db)
	stranger := createUser(t, db)
	listing := createListing(t, db, owner.ID)

	title := "Refreshed title"

	t.Run("Owner updates succeed", func(t *testing.T) {
		updated, err := svc.UpdateListing(ctx, UpdateListingInput{
			ListingID: listing.ID, UserID: owner.ID, Title: &title,
		})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
	})

	t.Run("Stranger gets 403", func(t *testing.T) {
		_, err := svc.UpdateListing(ctx, UpdateListingInput{
			ListingID: listing.ID, UserID: stranger.ID, Title: &title,
		})
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("Missing listing gets 404", func(t *testing.T) {
		_, err := svc.UpdateListing(ctx, UpdateListingInput{
			ListingID: 9999, UserID: owner.ID, Title: &title,
		})
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("No fields is a validation error", func(t *testing.T) {
		_, err := svc.UpdateListing(ctx, UpdateListingInput{
			ListingID: listing.ID, UserID: owner.ID,
		})
		assertStatus(t, err, http.StatusBadRequest)
	})
}

func TestListingService_DeleteListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db), &fakeStore{})
	ctx := context.Background()

	owner := createUser(t, db)
	stranger := createUser(t, db)
	listing := createListing(t, db, owner.ID)

	t.Run("Stranger gets 403", func(t *testing.T) {
		err := svc.DeleteListing(ctx, listing.ID, stranger.ID)
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("Owner delete succeeds", func(t *testing.T) {
		require.NoError(t, svc.DeleteListing(ctx, listing.ID, owner.ID))
		_, err := svc.GetListing(ctx, listing.ID)
		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestListingService_UploadImage(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	svc := NewListingService(repository.NewListingRepository(db), store)
	ctx := context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	t.Run("Valid image is stored as webp", func(t *testing.T) {
		url, err := svc.UploadImage(ctx, buf.Bytes())
		require.NoError(t, err)
		assert.Contains(t, url, "listings/")
		assert.True(t, strings.HasSuffix(url, ".webp"))
		require.Len(t, store.uploads, 1)
	})

	t.Run("Garbage bytes are a validation error", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, []byte("not an image"))
		assertStatus(t, err, http.StatusBadRequest)
	})
}
