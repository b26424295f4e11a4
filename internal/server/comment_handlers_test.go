package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsAndReplies(t *testing.T) {
	ts := newTestServer(t)
	owner, ownerToken := ts.signupUser(t)
	_, commenterToken := ts.signupUser(t)
	listing := ts.createListing(t, owner.ID)

	commentsPath := fmt.Sprintf("/api/listings/%d/comments", listing.ID)

	var topID uint

	t.Run("Create top-level comment", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, commentsPath, commenterToken, map[string]any{
			"content": "Love the courtyard",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			ID   uint `json:"id"`
			User *struct {
				Username string `json:"username"`
			} `json:"user"`
		}
		decodeBody(t, resp, &body)
		require.NotZero(t, body.ID)
		topID = body.ID
		require.NotNil(t, body.User)
	})

	t.Run("Reply to comment", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, commentsPath, ownerToken, map[string]any{
			"content":   "Thanks!",
			"parent_id": topID,
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Listing comments exclude replies", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, commentsPath, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []struct {
			ID uint `json:"id"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body, 1)
		assert.Equal(t, topID, body[0].ID)
	})

	t.Run("Replies endpoint returns the thread", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/comments/%d/replies", topID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []struct {
			Content string `json:"content"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body, 1)
		assert.Equal(t, "Thanks!", body[0].Content)
	})

	t.Run("Edit by stranger is forbidden", func(t *testing.T) {
		resp := ts.request(t, http.MethodPut, fmt.Sprintf("/api/comments/%d", topID), ownerToken, map[string]any{
			"content": "defaced",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCommentLikes(t *testing.T) {
	ts := newTestServer(t)
	owner, ownerToken := ts.signupUser(t)
	_, fanToken := ts.signupUser(t)
	listing := ts.createListing(t, owner.ID)

	resp := ts.request(t, http.MethodPost, fmt.Sprintf("/api/listings/%d/comments", listing.ID), ownerToken, map[string]any{
		"content": "like me",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &comment)

	likePath := fmt.Sprintf("/api/comments/%d/like", comment.ID)

	t.Run("First like", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, likePath, fanToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Second like conflicts", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, likePath, fanToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Signed-in viewer sees liked flag", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/listings/%d/comments", listing.ID), fanToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []struct {
			Liked      bool `json:"liked"`
			LikesCount int  `json:"likes_count"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body, 1)
		assert.True(t, body[0].Liked)
		assert.Equal(t, 1, body[0].LikesCount)
	})

	t.Run("Unlike is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := ts.request(t, http.MethodDelete, likePath, fanToken, nil)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}
	})
}
