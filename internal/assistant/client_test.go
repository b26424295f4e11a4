package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"housegig/internal/config"
	"housegig/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.Config{
		AIAPIURL: serverURL,
		AIAPIKey: "test-key",
		AIModel:  "gpt-4o-mini",
	})
}

func TestClient_Chat(t *testing.T) {
	var gotRequest chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  Paint it sage green.  "}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Chat(context.Background(), []Message{
		{Role: "user", Content: "What color for my cabin?"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Paint it sage green.", reply)

	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
	assert.Equal(t, "gpt-4o-mini", gotRequest.Model)
	assert.InDelta(t, 0.7, gotRequest.Temperature, 0.001)
	assert.Equal(t, 1000, gotRequest.MaxTokens)
}

func TestClient_ChatContext(t *testing.T) {
	var gotRequest chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), []Message{
		{Role: "user", Content: "advice?"},
	}, &Context{
		Type:         "listing",
		Title:        "Cliffside cabin",
		PropertyType: "cabin",
		Region:       "North Shore",
	})
	require.NoError(t, err)

	require.Len(t, gotRequest.Messages, 3)
	assert.Contains(t, gotRequest.Messages[1].Content, "Title: Cliffside cabin")
	assert.Contains(t, gotRequest.Messages[1].Content, "Property Type: cabin")
}

func TestClient_ChatTruncatesHistory(t *testing.T) {
	var gotRequest chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	messages := make([]Message, 0, 15)
	for i := 0; i < 15; i++ {
		messages = append(messages, Message{Role: "user", Content: strings.Repeat("x", 4000)})
	}

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), messages, nil)
	require.NoError(t, err)

	// System prompt plus the last ten turns, each capped.
	require.Len(t, gotRequest.Messages, 1+MaxHistoryMessages)
	for _, msg := range gotRequest.Messages[1:] {
		assert.Len(t, msg.Content, MaxMessageLength)
	}
}

func TestClient_ChatUpstreamErrors(t *testing.T) {
	cases := []struct {
		name       string
		upstream   int
		wantStatus int
	}{
		{"Auth failure maps to internal", http.StatusUnauthorized, http.StatusInternalServerError},
		{"Rate limit passes through", http.StatusTooManyRequests, http.StatusTooManyRequests},
		{"Server error maps to unavailable", http.StatusInternalServerError, http.StatusServiceUnavailable},
		{"Service unavailable maps to unavailable", http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.upstream)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
			require.Error(t, err)

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.wantStatus, appErr.HTTPStatus())
		})
	}
}

func TestClient_ChatEmptyMessages(t *testing.T) {
	client := newTestClient("http://unused.invalid")
	_, err := client.Chat(context.Background(), nil, nil)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
}
