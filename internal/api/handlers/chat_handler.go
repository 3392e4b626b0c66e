package handlers

import (
	"context"
	"errors"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixed user-facing messages. Raw provider errors never reach the client.
const (
	msgEmptyQuestion = "Por favor, escribe una pregunta válida."
	msgSystemBusy    = "El sistema está recibiendo demasiadas consultas en este momento. Por favor, intenta de nuevo en unos minutos."
	msgUnavailable   = "El asistente no está disponible en este momento. Intenta de nuevo más tarde."
)

// ChatAsker is the pipeline entrypoint the handler depends on.
type ChatAsker interface {
	Ask(ctx context.Context, question string, userID *uuid.UUID) (*dto.ChatResponse, error)
}

type ChatHandler struct {
	chat   ChatAsker
	logger *zap.Logger
}

func NewChatHandler(chat ChatAsker, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// Ask godoc
// @Summary Ask the academic assistant a question
// @Description Answers a question about university regulations using the knowledge base
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msgEmptyQuestion,
		})
	}

	var userID *uuid.UUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid user_id",
			})
		}
		userID = &id
	}

	resp, err := h.chat.Ask(c.Context(), req.Question, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": msgEmptyQuestion,
			})
		case errors.Is(err, service.ErrQuotaExceeded):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": msgSystemBusy,
			})
		default:
			h.logger.Error("Chat request failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": msgUnavailable,
			})
		}
	}

	return c.JSON(resp)
}
