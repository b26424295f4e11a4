package server

import (
	"housegig/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/listings/:id/vote
func (s *Server) CastVote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		VoteType string `json:"vote_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.voteService.Vote(c.Context(), userID, listingID, models.VoteType(req.VoteType)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vote recorded"})
}

// RemoveVote handles DELETE /api/listings/:id/vote
func (s *Server) RemoveVote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.voteService.RemoveVote(c.Context(), userID, listingID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vote removed"})
}

// GetVoteStatus handles GET /api/listings/:id/vote and reports the current
// user's vote direction, if any.
func (s *Server) GetVoteStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	voteType, err := s.voteService.GetVoteStatus(c.Context(), userID, listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"vote_type": voteType})
}

// GetVoteStats handles GET /api/listings/:id/votes
func (s *Server) GetVoteStats(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.voteService.GetVoteStats(c.Context(), listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
