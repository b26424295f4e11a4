package seed

import (
	"testing"

	"housegig/internal/database"
	"housegig/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeed_SmallPopulation(t *testing.T) {
	db := newSeedDB(t)

	if err := Seed(db, Options{NumUsers: 4, NumListings: 6}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var userCount, listingCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Listing{}).Count(&listingCount)
	if userCount != 4 {
		t.Fatalf("expected 4 users, got %d", userCount)
	}
	if listingCount != 6 {
		t.Fatalf("expected 6 listings, got %d", listingCount)
	}

	// Listing counters must match the vote rows they summarize.
	var upvoteRows int64
	db.Model(&models.Vote{}).Where("vote_type = ?", models.VoteTypeUpvote).Count(&upvoteRows)

	var counterSum int64
	db.Model(&models.Listing{}).Select("COALESCE(SUM(upvotes), 0)").Scan(&counterSum)
	if upvoteRows != counterSum {
		t.Fatalf("upvote counter drift: %d rows vs %d counted", upvoteRows, counterSum)
	}
}

func TestFactory_VoteAdjustsCounters(t *testing.T) {
	db := newSeedDB(t)
	f := NewFactory(db, SeedOptions{SkipBcrypt: true})

	owner, err := f.CreateUser()
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	voter, err := f.CreateUser()
	if err != nil {
		t.Fatalf("create voter: %v", err)
	}
	listing, err := f.CreateListing(owner)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if err := f.CreateVote(voter, listing, models.VoteTypeDownvote); err != nil {
		t.Fatalf("create vote: %v", err)
	}

	var reloaded models.Listing
	if err := db.First(&reloaded, listing.ID).Error; err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.Downvotes != 1 || reloaded.Upvotes != 0 {
		t.Fatalf("unexpected counters: up=%d down=%d", reloaded.Upvotes, reloaded.Downvotes)
	}
}
