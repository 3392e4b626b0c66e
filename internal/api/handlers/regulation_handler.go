package handlers

import (
	"errors"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegulationHandler struct {
	regService *service.RegulationService
	logger     *zap.Logger
}

func NewRegulationHandler(regService *service.RegulationService, logger *zap.Logger) *RegulationHandler {
	return &RegulationHandler{
		regService: regService,
		logger:     logger,
	}
}

// Create godoc
// @Summary Create a regulation
// @Description Stores a regulation entry; its embedding is computed from the content and the answer cache is invalidated
// @Tags regulations
// @Accept json
// @Produce json
// @Param request body dto.SaveRegulationRequest true "Regulation"
// @Success 201 {object} dto.RegulationResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/regulations [post]
func (h *RegulationHandler) Create(c *fiber.Ctx) error {
	req, err := parseSaveRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	reg, err := h.regService.Create(c.Context(), req)
	if err != nil {
		return h.saveError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toRegulationResponse(reg))
}

// Update godoc
// @Summary Update a regulation
// @Description Replaces content and embedding together and invalidates the answer cache
// @Tags regulations
// @Accept json
// @Produce json
// @Param id path string true "Regulation ID"
// @Param request body dto.SaveRegulationRequest true "Regulation"
// @Success 200 {object} dto.RegulationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/regulations/{id} [put]
func (h *RegulationHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid regulation ID",
		})
	}

	req, err := parseSaveRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	reg, err := h.regService.Update(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrRegulationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Regulation not found",
			})
		}
		return h.saveError(c, err)
	}

	return c.JSON(toRegulationResponse(reg))
}

// Delete godoc
// @Summary Delete a regulation
// @Tags regulations
// @Produce json
// @Param id path string true "Regulation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /api/v1/regulations/{id} [delete]
func (h *RegulationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid regulation ID",
		})
	}

	if err := h.regService.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete regulation", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete regulation",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary List regulations
// @Tags regulations
// @Produce json
// @Success 200 {array} dto.RegulationResponse
// @Router /api/v1/regulations [get]
func (h *RegulationHandler) List(c *fiber.Ctx) error {
	regs, err := h.regService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list regulations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list regulations",
		})
	}

	resp := make([]dto.RegulationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, toRegulationResponse(reg))
	}

	return c.JSON(resp)
}

// Categories godoc
// @Summary List categories in use
// @Description Returns the distinct categories currently used by stored regulations
// @Tags regulations
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /api/v1/regulations/categories [get]
func (h *RegulationHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.regService.Categories(c.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list categories",
		})
	}

	return c.JSON(dto.CategoriesResponse{Categories: categories})
}

func (h *RegulationHandler) saveError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrEmbeddingUnavailable) {
		h.logger.Error("Embedding unavailable while saving regulation", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": msgUnavailable,
		})
	}

	h.logger.Error("Failed to save regulation", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to save regulation",
	})
}

func parseSaveRequest(c *fiber.Ctx) (*dto.SaveRegulationRequest, error) {
	var req dto.SaveRegulationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("Invalid request body")
	}
	if req.Title == "" || req.Category == "" || req.Content == "" {
		return nil, errors.New("title, category and content are required")
	}
	return &req, nil
}

func toRegulationResponse(reg *models.Regulation) dto.RegulationResponse {
	return dto.RegulationResponse{
		ID:        reg.ID.String(),
		Title:     reg.Title,
		Category:  reg.Category,
		Content:   reg.Content,
		CreatedAt: reg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: reg.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
