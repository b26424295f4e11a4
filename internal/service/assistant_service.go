package service

import (
	"context"

	"housegig/internal/assistant"
	"housegig/internal/models"
	"housegig/internal/observability"
	"housegig/internal/repository"
)

type AssistantService struct {
	chatter     assistant.Chatter
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

// ContextRef is the client-supplied pointer at the page being viewed. The
// service resolves it to full details server side.
type ContextRef struct {
	Type      string `json:"type"`
	ListingID uint   `json:"listingId"`
	Username  string `json:"username"`
}

type AssistantChatInput struct {
	Messages []assistant.Message
	Context  *ContextRef
}

func NewAssistantService(chatter assistant.Chatter, listingRepo repository.ListingRepository, userRepo repository.UserRepository) *AssistantService {
	return &AssistantService{chatter: chatter, listingRepo: listingRepo, userRepo: userRepo}
}

// Chat validates and sanitizes the conversation, enriches the page context,
// and forwards the request upstream.
func (s *AssistantService) Chat(ctx context.Context, in AssistantChatInput) (string, error) {
	if len(in.Messages) == 0 {
		return "", models.NewValidationError("Messages must be a non-empty array")
	}
	for _, msg := range in.Messages {
		if msg.Role == "" || msg.Content == "" {
			return "", models.NewValidationError("Invalid message format. Each message must have role and content.")
		}
		if msg.Role != "user" && msg.Role != "assistant" && msg.Role != "system" {
			return "", models.NewValidationError("Invalid message format. Each message must have role and content.")
		}
		if msg.Role == "user" && assistant.ContainsInappropriateContent(msg.Content) {
			return "", models.NewValidationError("Please keep the conversation focused on design topics.")
		}
	}

	sanitized := make([]assistant.Message, 0, len(in.Messages))
	for _, msg := range in.Messages {
		sanitized = append(sanitized, assistant.Message{
			Role:    msg.Role,
			Content: assistant.SanitizeInput(msg.Content),
		})
	}

	reply, err := s.chatter.Chat(ctx, sanitized, s.enrichContext(ctx, in.Context))
	if err != nil {
		observability.AssistantRequests.WithLabelValues("error").Inc()
		return "", err
	}
	observability.AssistantRequests.WithLabelValues("ok").Inc()
	return reply, nil
}

// enrichContext resolves a context reference to listing or profile details.
// Enrichment is best effort; a failed lookup just drops the context.
func (s *AssistantService) enrichContext(ctx context.Context, ref *ContextRef) *assistant.Context {
	if ref == nil {
		return nil
	}

	switch ref.Type {
	case "listing":
		if ref.ListingID == 0 {
			return nil
		}
		listing, err := s.listingRepo.GetByID(ctx, ref.ListingID)
		if err != nil {
			return nil
		}
		enriched := &assistant.Context{
			Type:         "listing",
			Title:        listing.Title,
			Description:  listing.Description,
			PropertyType: listing.PropertyType,
			Region:       listing.Region,
		}
		if listing.Owner != nil {
			enriched.OwnerUsername = listing.Owner.Username
		}
		return enriched

	case "profile":
		if ref.Username == "" {
			return nil
		}
		user, err := s.userRepo.GetByUsername(ctx, ref.Username)
		if err != nil || user == nil {
			return nil
		}
		listings, err := s.listingRepo.GetByOwnerID(ctx, user.ID, 100, 0)
		count := 0
		if err == nil {
			count = len(listings)
		}
		return &assistant.Context{
			Type:          "profile",
			Username:      user.Username,
			Bio:           user.Bio,
			ListingsCount: count,
		}

	default:
		return nil
	}
}
