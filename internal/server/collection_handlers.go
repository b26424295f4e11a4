package server

import (
	"housegig/internal/models"
	"housegig/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCollection handles POST /api/collections
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.CreateCollection(c.Context(), service.CreateCollectionInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetMyCollections handles GET /api/collections
func (s *Server) GetMyCollections(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	collections, err := s.collectionService.ListUserCollections(c.Context(), userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collections)
}

// GetCollection handles GET /api/collections/:id
func (s *Server) GetCollection(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collection, err := s.collectionService.GetCollection(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collection)
}

// UpdateCollection handles PUT /api/collections/:id
func (s *Server) UpdateCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.UpdateCollection(c.Context(), service.UpdateCollectionInput{
		CollectionID: id,
		UserID:       userID,
		Name:         req.Name,
		Description:  req.Description,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collection)
}

// DeleteCollection handles DELETE /api/collections/:id
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.collectionService.DeleteCollection(c.Context(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collection deleted"})
}

// AddListingToCollection handles POST /api/collections/:id/listings/:listingId
func (s *Server) AddListingToCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	listingID, err := s.parseID(c, "listingId")
	if err != nil {
		return nil
	}

	if err := s.collectionService.AddListing(c.Context(), collectionID, listingID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Listing added to collection"})
}

// RemoveListingFromCollection handles DELETE /api/collections/:id/listings/:listingId
func (s *Server) RemoveListingFromCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	listingID, err := s.parseID(c, "listingId")
	if err != nil {
		return nil
	}

	if err := s.collectionService.RemoveListing(c.Context(), collectionID, listingID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing removed from collection"})
}

// GetCollectionListings handles GET /api/collections/:id/listings
func (s *Server) GetCollectionListings(c *fiber.Ctx) error {
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	listings, err := s.collectionService.ListListings(c.Context(), collectionID, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listings)
}

// GetCollectionsForListing handles GET /api/listings/:id/collections and
// returns the current user's collections with membership flags for the listing.
func (s *Server) GetCollectionsForListing(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collections, err := s.collectionService.ListCollectionsForListing(c.Context(), userID, listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collections)
}
