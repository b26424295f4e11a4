// Package storage uploads media to a Supabase-compatible object store over
// its HTTP API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"housegig/internal/config"

	"github.com/google/uuid"
)

// ObjectStore is what the rest of the application needs from media storage.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	PublicURL(path string) string
}

// Client talks to the Supabase storage HTTP API using the service role key.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewClient builds an ObjectStore from the storage configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.StorageURL, "/"),
		serviceKey: cfg.StorageServiceKey,
		bucket:     cfg.StorageBucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("storage: STORAGE_URL is not set")
	}
	if c.serviceKey == "" {
		return "", fmt.Errorf("storage: STORAGE_SERVICE_KEY is not set")
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	// Supabase expects both headers carrying the same key.
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(body))
	}

	return c.PublicURL(path), nil
}

// PublicURL returns the permanent unauthenticated URL for an object.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}

// ListingImagePath builds a collision-resistant object path for a listing
// image.
func ListingImagePath(ext string) string {
	return fmt.Sprintf("listings/%d-%s.%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
}

// AvatarPath builds the object path for a user's profile picture.
func AvatarPath(userID uint, ext string) string {
	return fmt.Sprintf("avatars/%d-%d.%s", userID, time.Now().UnixMilli(), ext)
}
