package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	owner, ownerToken := ts.signupUser(t)
	_, strangerToken := ts.signupUser(t)
	listing := ts.createListing(t, owner.ID)

	var privateID uint

	t.Run("Create private collection", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/collections/", ownerToken, map[string]any{
			"name":        "Dream cabins",
			"description": "Saved for later",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			ID       uint `json:"id"`
			IsPublic bool `json:"is_public"`
		}
		decodeBody(t, resp, &body)
		require.NotZero(t, body.ID)
		privateID = body.ID
		assert.False(t, body.IsPublic)
	})

	collectionPath := func(id uint) string { return fmt.Sprintf("/api/collections/%d", id) }

	t.Run("Owner sees private collection", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, collectionPath(privateID), ownerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Stranger gets 404 for private collection", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, collectionPath(privateID), strangerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Add listing", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost,
			fmt.Sprintf("/api/collections/%d/listings/%d", privateID, listing.ID), ownerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Duplicate membership conflicts", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost,
			fmt.Sprintf("/api/collections/%d/listings/%d", privateID, listing.ID), ownerToken, nil)
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "Listing already in collection", body.Error)
	})

	t.Run("Stranger cannot modify membership", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost,
			fmt.Sprintf("/api/collections/%d/listings/%d", privateID, listing.ID), strangerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		// Private collection existence is hidden from non-owners.
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Make public, then stranger update is forbidden", func(t *testing.T) {
		resp := ts.request(t, http.MethodPut, collectionPath(privateID), ownerToken, map[string]any{
			"is_public": true,
		})
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = ts.request(t, http.MethodPut, collectionPath(privateID), strangerToken, map[string]any{
			"name": "hijacked",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Collection listings are visible once public", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, collectionPath(privateID)+"/listings", strangerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []struct {
			ID uint `json:"id"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body, 1)
		assert.Equal(t, listing.ID, body[0].ID)
	})

	t.Run("Membership flags for a listing", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet,
			fmt.Sprintf("/api/listings/%d/collections", listing.ID), ownerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []struct {
			ID         uint `json:"id"`
			HasListing bool `json:"has_listing"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body, 1)
		assert.True(t, body[0].HasListing)
	})

	t.Run("Delete collection keeps listings", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, collectionPath(privateID), ownerToken, nil)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		listingResp := ts.request(t, http.MethodGet, listingPath(listing.ID), "", nil)
		defer func() { _ = listingResp.Body.Close() }()
		assert.Equal(t, http.StatusOK, listingResp.StatusCode)
	})
}
