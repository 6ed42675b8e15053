package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/cache"
	"github.com/yourorg/gadhub/internal/models"
	"github.com/yourorg/gadhub/internal/store"
)

// Cache keys per content family. Writes invalidate the whole "content:"
// prefix.
const (
	cacheKeyCirculars   = "content:circulars"
	cacheKeyResolutions = "content:resolutions"
	cacheKeyPrograms    = "content:programs"
	cacheKeyHotlines    = "content:hotlines"
)

// ContentHandler serves the informational listings shown in the app and the
// authenticated endpoints that publish new entries.
type ContentHandler struct {
	content  *store.ContentStore
	cache    *cache.Cache
	validate *validator.Validate
}

func NewContentHandler(content *store.ContentStore, c *cache.Cache) *ContentHandler {
	return &ContentHandler{
		content:  content,
		cache:    c,
		validate: validator.New(),
	}
}

// ListCirculars handles GET /api/circulars.
func (h *ContentHandler) ListCirculars(c *fiber.Ctx) error {
	if cached, found := h.cache.Get(cacheKeyCirculars); found {
		return c.JSON(cached)
	}

	items, err := h.content.ListCirculars(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	h.cache.Set(cacheKeyCirculars, items)
	return c.JSON(items)
}

// CreateCircular handles POST /api/circulars (authenticated).
func (h *ContentHandler) CreateCircular(c *fiber.Ctx) error {
	var req models.CreateCircularRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}
	publishedAt, err := time.Parse("2006-01-02", req.PublishedAt)
	if err != nil {
		return validationError(c, err)
	}

	id, err := h.content.InsertCircular(c.Context(), req.Title, req.Summary, req.FileURL, publishedAt)
	if err != nil {
		return serviceError(c, err)
	}

	h.cache.DeletePrefix("content:")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// ListResolutions handles GET /api/resolutions.
func (h *ContentHandler) ListResolutions(c *fiber.Ctx) error {
	if cached, found := h.cache.Get(cacheKeyResolutions); found {
		return c.JSON(cached)
	}

	items, err := h.content.ListResolutions(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	h.cache.Set(cacheKeyResolutions, items)
	return c.JSON(items)
}

// CreateResolution handles POST /api/resolutions (authenticated).
func (h *ContentHandler) CreateResolution(c *fiber.Ctx) error {
	var req models.CreateResolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}
	approvedAt, err := time.Parse("2006-01-02", req.ApprovedAt)
	if err != nil {
		return validationError(c, err)
	}

	id, err := h.content.InsertResolution(c.Context(), req.Number, req.Title, req.FileURL, approvedAt)
	if err != nil {
		return serviceError(c, err)
	}

	h.cache.DeletePrefix("content:")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// ListPrograms handles GET /api/programs.
func (h *ContentHandler) ListPrograms(c *fiber.Ctx) error {
	if cached, found := h.cache.Get(cacheKeyPrograms); found {
		return c.JSON(cached)
	}

	items, err := h.content.ListPrograms(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	h.cache.Set(cacheKeyPrograms, items)
	return c.JSON(items)
}

// CreateProgram handles POST /api/programs (authenticated).
func (h *ContentHandler) CreateProgram(c *fiber.Ctx) error {
	var req models.CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return validationError(c, err)
	}

	id, err := h.content.InsertProgram(c.Context(), req.Title, req.Description, req.Venue, startsAt)
	if err != nil {
		return serviceError(c, err)
	}

	h.cache.DeletePrefix("content:")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// ListHotlines handles GET /api/hotlines.
func (h *ContentHandler) ListHotlines(c *fiber.Ctx) error {
	if cached, found := h.cache.Get(cacheKeyHotlines); found {
		return c.JSON(cached)
	}

	items, err := h.content.ListHotlines(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	h.cache.Set(cacheKeyHotlines, items)
	return c.JSON(items)
}

// CreateHotline handles POST /api/hotlines (authenticated).
func (h *ContentHandler) CreateHotline(c *fiber.Ctx) error {
	var req models.CreateHotlineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	id, err := h.content.InsertHotline(c.Context(), req.Name, req.Office, req.Phone, req.Category)
	if err != nil {
		return serviceError(c, err)
	}

	h.cache.DeletePrefix("content:")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}
