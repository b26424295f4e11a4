package server

import (
	"housegig/internal/models"
	"housegig/internal/repository"
	"housegig/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetListings handles GET /api/listings with optional search, filter, and
// sort query parameters.
func (s *Server) GetListings(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.ListingFilter{
		Search:       c.Query("search"),
		PropertyType: c.Query("property_type"),
		SortBy:       c.Query("sort"),
		Limit:        p.Limit,
		Offset:       p.Offset,
	}

	listings, err := s.listingService.ListListings(c.Context(), filter)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listings)
}

// GetListing handles GET /api/listings/:id
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	listing, err := s.listingService.GetListing(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listing)
}

// CreateListing handles POST /api/listings
func (s *Server) CreateListing(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title            string   `json:"title"`
		Description      string   `json:"description"`
		Region           string   `json:"region"`
		PropertyType     string   `json:"property_type"`
		MainImageURL     string   `json:"main_image_url"`
		GalleryImageURLs []string `json:"gallery_image_urls"`
		Tags             []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.CreateListing(c.Context(), service.CreateListingInput{
		OwnerID:          userID,
		Title:            req.Title,
		Description:      req.Description,
		Region:           req.Region,
		PropertyType:     req.PropertyType,
		MainImageURL:     req.MainImageURL,
		GalleryImageURLs: req.GalleryImageURLs,
		Tags:             req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListing handles PUT /api/listings/:id
func (s *Server) UpdateListing(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title            *string  `json:"title"`
		Description      *string  `json:"description"`
		Region           *string  `json:"region"`
		PropertyType     *string  `json:"property_type"`
		MainImageURL     *string  `json:"main_image_url"`
		GalleryImageURLs []string `json:"gallery_image_urls"`
		Tags             []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.UpdateListing(c.Context(), service.UpdateListingInput{
		ListingID:        id,
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		Region:           req.Region,
		PropertyType:     req.PropertyType,
		MainImageURL:     req.MainImageURL,
		GalleryImageURLs: req.GalleryImageURLs,
		Tags:             req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listing)
}

// DeleteListing handles DELETE /api/listings/:id
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.listingService.DeleteListing(c.Context(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted"})
}

// UploadListingImage handles POST /api/listings/images. The image is
// re-encoded and stored before any listing references it; clients attach the
// returned URL to a subsequent create or update.
func (s *Server) UploadListingImage(c *fiber.Ctx) error {
	data, err := s.readUploadedFile(c, "image")
	if err != nil {
		return nil
	}

	url, err := s.listingService.UploadImage(c.Context(), data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// GetMyListings handles GET /api/me/listings
func (s *Server) GetMyListings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	listings, err := s.listingService.GetListingsByOwner(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listings)
}

// GetMyUpvotedListings handles GET /api/me/upvoted
func (s *Server) GetMyUpvotedListings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	listings, err := s.listingService.GetUpvotedListings(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listings)
}
