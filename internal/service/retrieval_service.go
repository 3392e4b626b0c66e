package service

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/TeranHc/ugtesis/internal/models"
	"github.com/TeranHc/ugtesis/pkg/config"

	"go.uber.org/zap"
)

// RegulationSearcher is the slice of the knowledge store retrieval needs.
type RegulationSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, floor float64, limit int) ([]*models.Regulation, error)
	KeywordSearch(ctx context.Context, terms []string, limit int) ([]*models.Regulation, error)
}

// Retriever finds the regulations most relevant to a question. An empty
// result is a valid outcome ("no grounding found"), not an error.
type Retriever interface {
	Retrieve(ctx context.Context, question string, embedding []float32) ([]*models.Regulation, error)
}

// NewRetriever selects the retrieval strategy from configuration. Earlier
// revisions of this system shipped keyword-only and vector-only variants;
// they survive here as swappable implementations of one interface.
func NewRetriever(store RegulationSearcher, cfg *config.RAGConfig, logger *zap.Logger) Retriever {
	switch cfg.Strategy {
	case "vector":
		return &vectorRetriever{store: store, floor: cfg.RelevanceFloor, topK: cfg.TopK, logger: logger}
	case "keyword":
		return &keywordRetriever{store: store, topK: cfg.TopK, logger: logger}
	default:
		return &hybridRetriever{
			vector:  &vectorRetriever{store: store, floor: cfg.RelevanceFloor, topK: cfg.TopK, logger: logger},
			keyword: &keywordRetriever{store: store, topK: cfg.TopK, logger: logger},
			logger:  logger,
		}
	}
}

type vectorRetriever struct {
	store  RegulationSearcher
	floor  float64
	topK   int
	logger *zap.Logger
}

func (r *vectorRetriever) Retrieve(ctx context.Context, question string, embedding []float32) ([]*models.Regulation, error) {
	results, err := r.store.SearchSimilar(ctx, embedding, r.floor, r.topK)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Vector retrieval completed",
		zap.Int("results", len(results)),
		zap.Float64("floor", r.floor),
	)
	return results, nil
}

type keywordRetriever struct {
	store  RegulationSearcher
	topK   int
	logger *zap.Logger
}

func (r *keywordRetriever) Retrieve(ctx context.Context, question string, embedding []float32) ([]*models.Regulation, error) {
	terms := TokenizeQuestion(question)
	if len(terms) == 0 {
		return nil, nil
	}

	results, err := r.store.KeywordSearch(ctx, terms, r.topK)
	if err != nil {
		return nil, err
	}

	// ILIKE matching carries no rank of its own; when the query vector is
	// available, order matches by similarity to it.
	if len(embedding) > 0 {
		sort.SliceStable(results, func(i, j int) bool {
			return CosineSimilarity(embedding, results[i].Embedding) >
				CosineSimilarity(embedding, results[j].Embedding)
		})
	}

	r.logger.Info("Keyword retrieval completed",
		zap.Strings("terms", terms),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// hybridRetriever tries vector search first and falls back to keyword
// matching when the vector backend errors or finds nothing.
type hybridRetriever struct {
	vector  *vectorRetriever
	keyword *keywordRetriever
	logger  *zap.Logger
}

func (r *hybridRetriever) Retrieve(ctx context.Context, question string, embedding []float32) ([]*models.Regulation, error) {
	results, err := r.vector.Retrieve(ctx, question, embedding)
	if err != nil {
		r.logger.Warn("Vector retrieval failed, falling back to keywords", zap.Error(err))
		return r.keyword.Retrieve(ctx, question, embedding)
	}
	if len(results) == 0 {
		return r.keyword.Retrieve(ctx, question, embedding)
	}
	return results, nil
}

// Spanish stop words dropped before keyword matching.
var stopWords = map[string]struct{}{
	"a": {}, "al": {}, "como": {}, "cómo": {}, "con": {}, "cual": {}, "cuál": {},
	"cuando": {}, "cuándo": {}, "cuanta": {}, "cuánta": {}, "cuantas": {}, "cuántas": {},
	"cuanto": {}, "cuánto": {}, "cuantos": {}, "cuántos": {}, "de": {}, "del": {},
	"el": {}, "en": {}, "es": {}, "esta": {}, "este": {}, "esto": {}, "hay": {},
	"la": {}, "las": {}, "lo": {}, "los": {}, "me": {}, "mi": {}, "necesito": {},
	"no": {}, "o": {}, "para": {}, "por": {}, "que": {}, "qué": {}, "se": {},
	"si": {}, "sí": {}, "sin": {}, "son": {}, "su": {}, "sus": {}, "un": {},
	"una": {}, "y": {},
}

// TokenizeQuestion lowercases the question, splits it on non-letter runes
// and drops stop words and single characters.
func TokenizeQuestion(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var terms []string
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, skip := stopWords[f]; skip {
			continue
		}
		terms = append(terms, f)
	}

	return terms
}
