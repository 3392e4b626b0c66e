package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/TeranHc/ugtesis/internal/models"

	"go.uber.org/zap"
)

// FallbackAnswer is returned verbatim whenever retrieval produced no
// grounding. Keeping it fixed (and skipping generation entirely) makes the
// refusal deterministic: no context means no answer, never an invented one.
const FallbackAnswer = "Lo siento, no tengo información sobre ese tema específico en mis reglamentos actuales."

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnswerService builds the grounding prompt and asks the provider for an
// answer constrained to the retrieved regulations.
type AnswerService struct {
	llm    Generator
	logger *zap.Logger
}

func NewAnswerService(llm Generator, logger *zap.Logger) *AnswerService {
	return &AnswerService{
		llm:    llm,
		logger: logger,
	}
}

// Answer generates a grounded answer. With no context entries it returns
// FallbackAnswer without calling the provider at all.
func (s *AnswerService) Answer(ctx context.Context, question string, regs []*models.Regulation) (string, error) {
	if len(regs) == 0 {
		s.logger.Info("No grounding found, returning fixed fallback answer",
			zap.String("question", question),
		)
		return FallbackAnswer, nil
	}

	answer, err := s.llm.Generate(ctx, s.BuildPrompt(question, regs))
	if err != nil {
		return "", err
	}

	return answer, nil
}

// BuildPrompt assembles the grounding prompt: every retrieved regulation as
// a labeled context block, then the question and the answering rules. The
// generator must cite the regulation it used and must not reach outside the
// supplied context.
func (s *AnswerService) BuildPrompt(question string, regs []*models.Regulation) string {
	var b strings.Builder

	b.WriteString("CONTEXTO RECUPERADO:\n")
	for _, reg := range regs {
		b.WriteString(fmt.Sprintf("-- REGLAMENTO: %s (%s) --\n%s\n\n", reg.Title, reg.Category, reg.Content))
	}

	b.WriteString(fmt.Sprintf("PREGUNTA DEL USUARIO: %q\n\n", question))
	b.WriteString(`INSTRUCCIONES:
1. Responde basándote EXCLUSIVAMENTE en el contexto recuperado.
2. CITA LA FUENTE: menciona siempre qué reglamento o artículo usaste (ej: "Según el Art. 22 del Reglamento...").
3. Si el contexto no contiene la respuesta, di que no tienes información sobre ese tema en los reglamentos actuales.
4. No inventes artículos ni leyes que no estén en el texto.`)

	return b.String()
}
