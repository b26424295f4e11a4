package repository

import (
	"fmt"
	"testing"

	"housegig/internal/database"
	"housegig/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema so each
// test starts from a clean slate.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	testUserSeq++
	user := &models.User{
		Username: fmt.Sprintf("tester%d", testUserSeq),
		Email:    fmt.Sprintf("tester%d@example.com", testUserSeq),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestListing(t *testing.T, db *gorm.DB, ownerID uint) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:        "Cliffside cabin",
		Description:  "Two floors with a view over the bay",
		Region:       "North Shore",
		PropertyType: "cabin",
		OwnerID:      ownerID,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func createTestComment(t *testing.T, db *gorm.DB, userID, listingID uint, parentID *uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content:   "great spot",
		UserID:    userID,
		ListingID: listingID,
		ParentID:  parentID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
