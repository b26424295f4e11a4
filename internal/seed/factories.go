// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"housegig/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes factory behavior.
type SeedOptions struct {
	// DryRun builds entities without writing them to the database.
	DryRun bool
	// SkipBcrypt stores a plaintext password for faster dev seeding.
	SkipBcrypt bool
	// MaxDays bounds how far back generated created_at timestamps spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

func (f *Factory) spreadTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Bio:       gofakeit.Sentence(10),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildListing constructs a listing struct without persisting it. Useful
// for batching.
func (f *Factory) BuildListing(owner *models.User, overrides ...func(*models.Listing)) *models.Listing {
	propertyType := propertyTypes[gofakeit.Number(0, len(propertyTypes)-1)]
	listing := &models.Listing{
		Title:        generateListingTitle(propertyType),
		Description:  gofakeit.Paragraph(2, 4, 8, "\n"),
		Region:       regions[gofakeit.Number(0, len(regions)-1)],
		PropertyType: propertyType,
		MainImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", gofakeit.UUID()),
		Tags:         pickTags(),
		OwnerID:      owner.ID,
	}
	listing.CreatedAt = f.spreadTimestamp()

	galleryCount := gofakeit.Number(0, 4)
	for i := 0; i < galleryCount; i++ {
		listing.GalleryImageURLs = append(listing.GalleryImageURLs,
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()))
	}

	for _, override := range overrides {
		override(listing)
	}
	return listing
}

// CreateListing constructs and persists a sample `models.Listing` for the
// given owner.
func (f *Factory) CreateListing(owner *models.User, overrides ...func(*models.Listing)) (*models.Listing, error) {
	listing := f.BuildListing(owner, overrides...)

	if f.opts.DryRun {
		f.nextID++
		listing.ID = f.nextID
		log.Printf("[dry-run] CreateListing: owner=%d title=%q", listing.OwnerID, listing.Title)
		return listing, nil
	}

	if err := f.db.Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// CreateListingsBatch persists multiple listings in a single DB call.
func (f *Factory) CreateListingsBatch(listings []*models.Listing) error {
	if f.opts.DryRun {
		for _, l := range listings {
			f.nextID++
			l.ID = f.nextID
		}
		log.Printf("[dry-run] CreateListingsBatch: %d listings (no DB write)", len(listings))
		return nil
	}
	return f.db.Create(&listings).Error
}

// CreateVote records a vote and adjusts the listing counters in the same
// transaction, matching how the application writes votes.
func (f *Factory) CreateVote(user *models.User, listing *models.Listing, voteType models.VoteType) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateVote: user=%d listing=%d type=%s", user.ID, listing.ID, voteType)
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		vote := models.Vote{UserID: user.ID, ListingID: listing.ID, VoteType: voteType}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		column := "upvotes"
		if voteType == models.VoteTypeDownvote {
			column = "downvotes"
		}
		return tx.Model(&models.Listing{}).Where("id = ?", listing.ID).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error
	})
}

// CreateComment constructs and persists a comment on a listing. Pass a
// parent to create a reply.
func (f *Factory) CreateComment(user *models.User, listing *models.Listing, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(gofakeit.Number(5, 20)),
		UserID:    user.ID,
		ListingID: listing.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		log.Printf("[dry-run] CreateComment: user=%d listing=%d", comment.UserID, comment.ListingID)
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateCommentLike records a like and bumps the counter in one transaction.
func (f *Factory) CreateCommentLike(user *models.User, comment *models.Comment) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateCommentLike: user=%d comment=%d", user.ID, comment.ID)
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		like := models.CommentLike{UserID: user.ID, CommentID: comment.ID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", comment.ID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// CreateCollection constructs and persists a collection for the given owner.
func (f *Factory) CreateCollection(owner *models.User, overrides ...func(*models.Collection)) (*models.Collection, error) {
	collection := &models.Collection{
		Name:        generateCollectionName(),
		Description: gofakeit.Sentence(8),
		IsPublic:    gofakeit.Bool(),
		OwnerID:     owner.ID,
	}

	for _, override := range overrides {
		override(collection)
	}

	if f.opts.DryRun {
		f.nextID++
		collection.ID = f.nextID
		log.Printf("[dry-run] CreateCollection: owner=%d name=%q", collection.OwnerID, collection.Name)
		return collection, nil
	}

	if err := f.db.Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// AddListingToCollection links a listing into a collection.
func (f *Factory) AddListingToCollection(collection *models.Collection, listing *models.Listing) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] AddListingToCollection: collection=%d listing=%d", collection.ID, listing.ID)
		return nil
	}
	item := models.CollectionListing{CollectionID: collection.ID, ListingID: listing.ID}
	return f.db.Create(&item).Error
}

// CreateConversation opens a direct conversation between two users.
func (f *Factory) CreateConversation(a, b *models.User) (*models.Conversation, error) {
	conversation := &models.Conversation{}

	if f.opts.DryRun {
		f.nextID++
		conversation.ID = f.nextID
		log.Printf("[dry-run] CreateConversation: %d<->%d", a.ID, b.ID)
		return conversation, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}
		participants := []models.ConversationParticipant{
			{ConversationID: conversation.ID, UserID: a.ID},
			{ConversationID: conversation.ID, UserID: b.ID},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// CreateMessage constructs and persists a message in a conversation.
func (f *Factory) CreateMessage(conversation *models.Conversation, sender *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       sender.ID,
		Content:        gofakeit.Sentence(gofakeit.Number(3, 15)),
	}

	for _, override := range overrides {
		override(message)
	}

	if f.opts.DryRun {
		f.nextID++
		message.ID = f.nextID
		log.Printf("[dry-run] CreateMessage: conversation=%d sender=%d", message.ConversationID, message.SenderID)
		return message, nil
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}
