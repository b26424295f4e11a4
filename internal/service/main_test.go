package service

import (
	"context"
	"fmt"
	"testing"

	"housegig/internal/database"
	"housegig/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("svcuser%d", userSeq),
		Email:    fmt.Sprintf("svcuser%d@example.com", userSeq),
		Password: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createListing(t *testing.T, db *gorm.DB, ownerID uint) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:        "Garden cottage",
		Description:  "Sunny, with a wraparound porch",
		Region:       "Westfold",
		PropertyType: "cottage",
		OwnerID:      ownerID,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

// fakeStore records uploads without touching the network.
type fakeStore struct {
	uploads []string
	fail    bool
}

func (f *fakeStore) Upload(_ context.Context, path, _ string, _ []byte) (string, error) {
	if f.fail {
		return "", fmt.Errorf("upstream down")
	}
	f.uploads = append(f.uploads, path)
	return f.PublicURL(path), nil
}

func (f *fakeStore) PublicURL(path string) string {
	return "https://cdn.example/" + path
}
