package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/TeranHc/ugtesis/internal/dto"
	"github.com/TeranHc/ugtesis/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChatAsker struct {
	resp       *dto.ChatResponse
	err        error
	lastUserID *uuid.UUID
}

func (s *stubChatAsker) Ask(_ context.Context, _ string, userID *uuid.UUID) (*dto.ChatResponse, error) {
	s.lastUserID = userID
	return s.resp, s.err
}

func chatApp(asker ChatAsker) *fiber.App {
	app := fiber.New()
	handler := NewChatHandler(asker, zap.NewNop())
	app.Post("/api/v1/chat", handler.Ask)
	return app
}

func postChat(t *testing.T, app *fiber.App, body any) (int, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestChatHandlerSuccess(t *testing.T) {
	asker := &stubChatAsker{
		resp: &dto.ChatResponse{Answer: "La nota mínima es 7.", Source: dto.SourceKnowledgeBase},
	}
	app := chatApp(asker)

	status, body := postChat(t, app, dto.ChatRequest{Question: "¿Cuál es la nota mínima?"})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "La nota mínima es 7.", body["answer"])
	assert.Equal(t, "knowledge_base", body["source"])
	assert.Nil(t, asker.lastUserID)
}

func TestChatHandlerPassesUserID(t *testing.T) {
	asker := &stubChatAsker{
		resp: &dto.ChatResponse{Answer: "ok", Source: dto.SourceGeneral},
	}
	app := chatApp(asker)
	userID := uuid.New()

	status, _ := postChat(t, app, dto.ChatRequest{Question: "pregunta", UserID: userID.String()})

	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, asker.lastUserID)
	assert.Equal(t, userID, *asker.lastUserID)
}

func TestChatHandlerInvalidUserID(t *testing.T) {
	app := chatApp(&stubChatAsker{})

	status, _ := postChat(t, app, dto.ChatRequest{Question: "pregunta", UserID: "not-a-uuid"})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestChatHandlerEmptyQuestion(t *testing.T) {
	asker := &stubChatAsker{err: service.ErrEmptyInput}
	app := chatApp(asker)

	status, body := postChat(t, app, dto.ChatRequest{Question: "   "})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgEmptyQuestion, body["error"])
}

func TestChatHandlerQuotaExceeded(t *testing.T) {
	asker := &stubChatAsker{err: service.ErrQuotaExceeded}
	app := chatApp(asker)

	status, body := postChat(t, app, dto.ChatRequest{Question: "pregunta"})

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, msgSystemBusy, body["error"])
}

func TestChatHandlerProviderDown(t *testing.T) {
	asker := &stubChatAsker{err: service.ErrEmbeddingUnavailable}
	app := chatApp(asker)

	status, body := postChat(t, app, dto.ChatRequest{Question: "pregunta"})

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, msgUnavailable, body["error"])
}
