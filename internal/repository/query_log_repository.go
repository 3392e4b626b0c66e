package repository

import (
	"context"

	"github.com/TeranHc/ugtesis/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ScoredQueryLog pairs a stored log entry with its similarity to a query
// vector, as computed by the database.
type ScoredQueryLog struct {
	Log        *models.QueryLog
	Similarity float64
}

type QueryLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewQueryLogRepository(db *pgxpool.Pool, logger *zap.Logger) *QueryLogRepository {
	return &QueryLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *QueryLogRepository) Insert(ctx context.Context, log *models.QueryLog) error {
	query := squirrel.Insert("query_logs").
		Columns("id", "user_id", "question", "answer", "embedding", "asked_at").
		Values(log.ID, log.UserID, log.Question, log.Answer, toVector(log.Embedding), log.AskedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// SearchSimilar returns the limit most similar logged questions, best first.
// No floor is applied here; the cache decides what counts as a hit.
func (r *QueryLogRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]ScoredQueryLog, error) {
	vec := toVector(embedding)

	query := squirrel.Select("id", "user_id", "question", "answer", "embedding", "asked_at").
		Column(squirrel.Expr("1 - (embedding <=> ?) AS similarity", vec)).
		From("query_logs").
		OrderBy("similarity DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ScoredQueryLog
	for rows.Next() {
		var log models.QueryLog
		var emb pgtype.FlatArray[float32]
		var similarity float64

		if err := rows.Scan(
			&log.ID, &log.UserID, &log.Question, &log.Answer, &emb, &log.AskedAt, &similarity,
		); err != nil {
			return nil, err
		}

		log.Embedding = []float32(emb)
		results = append(results, ScoredQueryLog{Log: &log, Similarity: similarity})
	}

	return results, rows.Err()
}

func (r *QueryLogRepository) List(ctx context.Context, limit int) ([]*models.QueryLog, error) {
	query := squirrel.Select("id", "user_id", "question", "answer", "embedding", "asked_at").
		From("query_logs").
		OrderBy("asked_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.QueryLog
	for rows.Next() {
		var log models.QueryLog
		var emb pgtype.FlatArray[float32]

		if err := rows.Scan(
			&log.ID, &log.UserID, &log.Question, &log.Answer, &emb, &log.AskedAt,
		); err != nil {
			return nil, err
		}

		log.Embedding = []float32(emb)
		results = append(results, &log)
	}

	return results, rows.Err()
}

func (r *QueryLogRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, "DELETE FROM query_logs")
	return err
}

func (r *QueryLogRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("query_logs").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
