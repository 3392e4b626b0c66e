package handlers

import (
	"context"
	"strconv"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLogLimit = 50

// LogAdminStore is the slice of the query-log store the admin surface needs.
type LogAdminStore interface {
	List(ctx context.Context, limit int) ([]*models.QueryLog, error)
	DeleteAll(ctx context.Context) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type QueryLogHandler struct {
	store  LogAdminStore
	logger *zap.Logger
}

func NewQueryLogHandler(store LogAdminStore, logger *zap.Logger) *QueryLogHandler {
	return &QueryLogHandler{
		store:  store,
		logger: logger,
	}
}

// List godoc
// @Summary List recent query logs
// @Description Returns the most recent answered questions, newest first
// @Tags logs
// @Produce json
// @Param limit query int false "Maximum entries to return" default(50)
// @Success 200 {array} dto.QueryLogResponse
// @Router /api/v1/logs [get]
func (h *QueryLogHandler) List(c *fiber.Ctx) error {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid limit",
			})
		}
		limit = parsed
	}

	logs, err := h.store.List(c.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list query logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list query logs",
		})
	}

	resp := make([]dto.QueryLogResponse, 0, len(logs))
	for _, entry := range logs {
		item := dto.QueryLogResponse{
			ID:       entry.ID.String(),
			Question: entry.Question,
			Answer:   entry.Answer,
			AskedAt:  entry.AskedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if entry.UserID != nil {
			item.UserID = entry.UserID.String()
		}
		resp = append(resp, item)
	}

	return c.JSON(resp)
}

// DeleteAll godoc
// @Summary Purge the query log
// @Description Removes every logged question and answer, which also empties the semantic cache
// @Tags logs
// @Produce json
// @Success 204
// @Router /api/v1/logs [delete]
func (h *QueryLogHandler) DeleteAll(c *fiber.Ctx) error {
	if err := h.store.DeleteAll(c.Context()); err != nil {
		h.logger.Error("Failed to purge query logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to purge query logs",
		})
	}

	h.logger.Info("Query log purged")
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary Delete a single query log entry
// @Tags logs
// @Produce json
// @Param id path string true "Log entry ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /api/v1/logs/{id} [delete]
func (h *QueryLogHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid log entry ID",
		})
	}

	if err := h.store.DeleteByID(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete query log entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete query log entry",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
