// Package assistant proxies chat requests to an OpenAI-compatible API and
// keeps the conversation scoped to home design topics.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"housegig/internal/config"
	"housegig/internal/models"
)

const systemPrompt = `You are an expert interior/exterior design and garden planning assistant for HouseGig, a platform where users share and discover home designs.

Your role:
- Provide specific, actionable, and budget-conscious design advice
- Help with color palettes, layouts, furniture placement, lighting, materials, and garden/landscaping
- When context about a listing or profile is provided, use it to give tailored recommendations
- Be practical and realistic about costs, timelines, and difficulty levels
- Structure your answers with clear sections (e.g., "Color Palette", "Key Steps", "Budget Tips")
- Keep responses scannable with bullet points and numbered steps
- If you need clarification, ask one focused question

Style guidelines:
- Be friendly, enthusiastic, and encouraging
- Use design terminology but explain jargon when needed
- Suggest 2-3 options when possible (e.g., budget/mid-range/luxury)
- Include rough cost estimates when discussing purchases
- Mention safety considerations for renovations

What to avoid:
- Don't make up specific product names or prices
- Don't provide structural engineering or electrical/plumbing advice beyond general guidance
- Keep responses under 500 words for clarity`

// MaxHistoryMessages caps how much conversation history is forwarded upstream.
const MaxHistoryMessages = 10

// MaxMessageLength caps the forwarded length of a single message.
const MaxMessageLength = 3000

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Context carries page details the assistant can tailor its advice to.
// Type is "listing" or "profile"; only the matching fields are set.
type Context struct {
	Type          string
	Title         string
	Description   string
	PropertyType  string
	Region        string
	OwnerUsername string
	Username      string
	Bio           string
	ListingsCount int
}

// Chatter is the upstream AI dependency.
type Chatter interface {
	Chat(ctx context.Context, messages []Message, pageCtx *Context) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a Chatter from the AI configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:     strings.TrimRight(cfg.AIAPIURL, "/"),
		apiKey:     cfg.AIAPIKey,
		model:      cfg.AIModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Model reports the configured upstream model name.
func (c *Client) Model() string {
	return c.model
}

// Configured reports whether an upstream API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type chatCompletionRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	PresencePenalty  float64   `json:"presence_penalty"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat forwards the conversation to the upstream API and returns the
// assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message, pageCtx *Context) (string, error) {
	if len(messages) == 0 {
		return "", models.NewValidationError("Messages must be a non-empty array")
	}

	conversation := []Message{{Role: "system", Content: systemPrompt}}
	if pageCtx != nil {
		if content := buildContextMessage(pageCtx); content != "" {
			conversation = append(conversation, Message{
				Role:    "system",
				Content: "Context about the current page:\n" + content,
			})
		}
	}

	recent := messages
	if len(recent) > MaxHistoryMessages {
		recent = recent[len(recent)-MaxHistoryMessages:]
	}
	for _, msg := range recent {
		conversation = append(conversation, Message{Role: msg.Role, Content: capMessageLength(msg.Content)})
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:            c.model,
		Messages:         conversation,
		Temperature:      0.7,
		MaxTokens:        1000,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewServiceUnavailableError("AI service temporarily unavailable. Please try again.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", models.NewInternalError(fmt.Errorf("decode AI response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", models.NewInternalError(fmt.Errorf("no response from AI"))
	}
	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", models.NewInternalError(fmt.Errorf("no response from AI"))
	}
	return reply, nil
}

// upstreamError translates upstream HTTP failures into client-facing errors.
// An upstream auth failure is our misconfiguration, not the caller's.
func upstreamError(status int) *models.AppError {
	switch status {
	case http.StatusUnauthorized:
		return &models.AppError{
			Code:    "INTERNAL_ERROR",
			Message: "AI service authentication failed",
		}
	case http.StatusTooManyRequests:
		return models.NewRateLimitError("AI service rate limit reached. Please try again in a moment.")
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return models.NewServiceUnavailableError("AI service temporarily unavailable. Please try again.")
	default:
		return &models.AppError{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get AI response. Please try again.",
		}
	}
}

// buildContextMessage flattens page context into a prompt fragment.
func buildContextMessage(pageCtx *Context) string {
	switch pageCtx.Type {
	case "listing":
		var parts []string
		if pageCtx.Title != "" {
			parts = append(parts, "Title: "+pageCtx.Title)
		}
		if pageCtx.Description != "" {
			parts = append(parts, "Description: "+pageCtx.Description)
		}
		if pageCtx.PropertyType != "" {
			parts = append(parts, "Property Type: "+pageCtx.PropertyType)
		}
		if pageCtx.Region != "" {
			parts = append(parts, "Region/Style: "+pageCtx.Region)
		}
		if pageCtx.OwnerUsername != "" {
			parts = append(parts, "Owner: "+pageCtx.OwnerUsername)
		}
		if len(parts) == 0 {
			return ""
		}
		return "This is a listing on HouseGig:\n" + strings.Join(parts, "\n")

	case "profile":
		var parts []string
		if pageCtx.Username != "" {
			parts = append(parts, "Username: "+pageCtx.Username)
		}
		if pageCtx.Bio != "" {
			parts = append(parts, "Bio: "+pageCtx.Bio)
		}
		parts = append(parts, fmt.Sprintf("Number of listings: %d", pageCtx.ListingsCount))
		return "This is a user profile on HouseGig:\n" + strings.Join(parts, "\n")

	default:
		return ""
	}
}
