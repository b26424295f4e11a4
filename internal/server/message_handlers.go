package server

import (
	"housegig/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetOrCreateConversation handles POST /api/conversations. Creating a
// conversation with the same counterpart twice returns the existing one.
func (s *Server) GetOrCreateConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	conversation, err := s.chatService.GetOrCreateConversation(c.Context(), userID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

// GetConversations handles GET /api/conversations and returns summaries with
// the counterpart profile, last message, and unread count.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	summaries, err := s.chatService.ListConversations(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summaries)
}

// GetConversation handles GET /api/conversations/:id
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	conversation, err := s.chatService.GetConversation(c.Context(), conversationID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(conversation)
}

// SendMessage handles POST /api/conversations/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.chatService.SendMessage(c.Context(), conversationID, userID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// MarkConversationRead handles POST /api/conversations/:id/read and advances
// the caller's read watermark to now.
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.MarkRead(c.Context(), conversationID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Conversation marked as read"})
}

// LeaveConversation handles DELETE /api/conversations/:id
func (s *Server) LeaveConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.LeaveConversation(c.Context(), conversationID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left conversation"})
}
