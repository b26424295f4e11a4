package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"housegig/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumListings int
	ShouldClean bool
}

var (
	propertyTypes = []string{
		"apartment", "loft", "cottage", "cabin", "villa", "townhouse",
		"farmhouse", "bungalow", "penthouse", "studio", "duplex", "houseboat",
	}

	regions = []string{
		"Dockside", "Old Town", "Riverbend", "Hillcrest", "Meadowlark",
		"Northgate", "Harborview", "Cedar Hollow", "Stonebridge", "Lakeshore",
		"Pinecrest", "Westfield", "Maple Grove", "Sunnyvale", "Brookside",
	}

	styleAdjectives = []string{
		"sunlit", "restored", "minimalist", "rustic", "airy", "cozy",
		"industrial", "coastal", "mid-century", "scandinavian", "bohemian",
		"modern", "vintage", "open-plan", "charming", "secluded",
	}

	listingTags = []string{
		"renovation", "diy", "budget", "luxury", "garden", "kitchen",
		"bathroom", "workspace", "lighting", "storage", "outdoor", "eco",
		"small-space", "before-after", "woodwork", "plants",
	}

	collectionThemes = []string{
		"Dream kitchens", "Weekend projects", "Tiny living", "Garden goals",
		"Workspace ideas", "Renovation inspo", "Cabin fever", "Future home",
		"Color studies", "Storage tricks", "Budget makeovers", "Light and air",
	}
)

func generateListingTitle(propertyType string) string {
	adj := styleAdjectives[gofakeit.Number(0, len(styleAdjectives)-1)]
	formats := []string{
		"%s %s with a view",
		"A %s %s made new",
		"Our %s %s project",
		"%s %s near the water",
		"The %s %s we always wanted",
	}
	format := formats[gofakeit.Number(0, len(formats)-1)]
	title := fmt.Sprintf(format, adj, propertyType)
	return strings.ToUpper(title[:1]) + title[1:]
}

func generateCollectionName() string {
	return collectionThemes[gofakeit.Number(0, len(collectionThemes)-1)]
}

func pickTags() []string {
	count := gofakeit.Number(1, 4)
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	picked := make([]string, 0, count)
	for _, idx := range r.Perm(len(listingTags))[:count] {
		picked = append(picked, listingTags[idx])
	}
	return picked
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d listings...", opts.NumUsers, opts.NumListings)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	listings, err := createListings(factory, users, opts.NumListings)
	if err != nil {
		return fmt.Errorf("failed to create listings: %w", err)
	}
	log.Printf("✓ %d listings created", len(listings))

	if err := createEngagement(factory, users, listings); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("✓ votes, comments, and likes created")

	if err := createCollections(factory, users, listings); err != nil {
		return fmt.Errorf("failed to create collections: %w", err)
	}
	log.Println("✓ collections created")

	if err := createConversations(factory, users); err != nil {
		return fmt.Errorf("failed to create conversations: %w", err)
	}
	log.Println("✓ conversations created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comment_likes, comments, votes, collection_listings, collections, messages, conversation_participants, conversations, listings, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []string{"demo", "studio", "test"}
		for _, name := range baseUsers {
			name := name
			user, err := factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Bio = "One of the OGs."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createListings(factory *Factory, users []*models.User, count int) ([]*models.Listing, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	listings := make([]*models.Listing, 0, count)
	for i := 0; i < count; i++ {
		owner := users[r.Intn(len(users))]
		listings = append(listings, factory.BuildListing(owner))
	}

	// Batch insert in chunks to keep statements small
	const chunk = 100
	for start := 0; start < len(listings); start += chunk {
		end := start + chunk
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]
		if err := factory.CreateListingsBatch(batch); err != nil {
			return nil, err
		}
	}

	return listings, nil
}

func createEngagement(factory *Factory, users []*models.User, listings []*models.Listing) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, listing := range listings {
		// A shuffled voter pool guarantees one vote per user per listing.
		voterCount := r.Intn(len(users))
		for _, idx := range r.Perm(len(users))[:voterCount] {
			voter := users[idx]
			voteType := models.VoteTypeUpvote
			if r.Float32() < 0.25 {
				voteType = models.VoteTypeDownvote
			}
			if err := factory.CreateVote(voter, listing, voteType); err != nil {
				return err
			}
		}

		commentCount := r.Intn(5)
		for i := 0; i < commentCount; i++ {
			author := users[r.Intn(len(users))]
			comment, err := factory.CreateComment(author, listing, nil)
			if err != nil {
				return err
			}

			if r.Float32() < 0.4 {
				replier := users[r.Intn(len(users))]
				if _, err := factory.CreateComment(replier, listing, comment); err != nil {
					return err
				}
			}

			if r.Float32() < 0.3 {
				liker := users[r.Intn(len(users))]
				if liker.ID != author.ID {
					if err := factory.CreateCommentLike(liker, comment); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func createCollections(factory *Factory, users []*models.User, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		if r.Float32() > 0.5 {
			continue
		}
		collection, err := factory.CreateCollection(user)
		if err != nil {
			return err
		}

		// Distinct listings per collection; duplicates violate the unique index.
		memberCount := r.Intn(5) + 1
		if memberCount > len(listings) {
			memberCount = len(listings)
		}
		for _, idx := range r.Perm(len(listings))[:memberCount] {
			if err := factory.AddListingToCollection(collection, listings[idx]); err != nil {
				return err
			}
		}
	}

	return nil
}

func createConversations(factory *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	pairCount := len(users) / 2
	perm := r.Perm(len(users))
	for i := 0; i+1 < len(perm) && i/2 < pairCount; i += 2 {
		a, b := users[perm[i]], users[perm[i+1]]
		conversation, err := factory.CreateConversation(a, b)
		if err != nil {
			return err
		}

		messageCount := r.Intn(8) + 1
		for m := 0; m < messageCount; m++ {
			sender := a
			if m%2 == 1 {
				sender = b
			}
			if _, err := factory.CreateMessage(conversation, sender); err != nil {
				return err
			}
		}
	}

	return nil
}
