package server

import (
	"housegig/internal/models"
	"housegig/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/me. Owned listings, votes, comments,
// and collections are removed; sent messages survive for counterparts.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}

// UploadAvatar handles POST /api/me/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	data, err := s.readUploadedFile(c, "image")
	if err != nil {
		return nil
	}

	url, err := s.userService.UploadAvatar(c.Context(), userID, data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"avatar_url": url})
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := s.userService.GetProfileByUsername(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetUserListings handles GET /api/users/:username/listings
func (s *Server) GetUserListings(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 20)

	listings, err := s.userService.GetUserListings(c.Context(), username, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listings)
}

// GetUserCollections handles GET /api/users/:username/collections. Private
// collections are included only when the viewer is the owner.
func (s *Server) GetUserCollections(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := s.userService.GetProfileByUsername(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}

	collections, err := s.collectionService.ListUserCollections(c.Context(), profile.ID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collections)
}
