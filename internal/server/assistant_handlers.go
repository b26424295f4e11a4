package server

import (
	"housegig/internal/assistant"
	"housegig/internal/models"
	"housegig/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AssistantChat handles POST /api/ai/chat. The request is validated and
// sanitized, enriched with page context, and proxied upstream.
func (s *Server) AssistantChat(c *fiber.Ctx) error {
	var req struct {
		Messages []assistant.Message `json:"messages"`
		Context  *service.ContextRef `json:"context"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.assistantService.Chat(c.Context(), service.AssistantChatInput{
		Messages: req.Messages,
		Context:  req.Context,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": reply})
}

// AssistantHealth handles GET /api/ai/health. It reports configuration state
// without calling the upstream provider.
func (s *Server) AssistantHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "ok",
		"service":    "ai-assistant",
		"configured": s.aiClient.Configured(),
		"model":      s.aiClient.Model(),
	})
}
