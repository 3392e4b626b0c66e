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

type RegulationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRegulationRepository(db *pgxpool.Pool, logger *zap.Logger) *RegulationRepository {
	return &RegulationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RegulationRepository) Create(ctx context.Context, reg *models.Regulation) error {
	query := squirrel.Insert("regulations").
		Columns("id", "title", "category", "content", "embedding", "created_at", "updated_at").
		Values(reg.ID, reg.Title, reg.Category, reg.Content, toVector(reg.Embedding), reg.CreatedAt, reg.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Update replaces text and embedding in one statement so a reader can never
// observe new content paired with a stale vector.
func (r *RegulationRepository) Update(ctx context.Context, reg *models.Regulation) error {
	query := squirrel.Update("regulations").
		Set("title", reg.Title).
		Set("category", reg.Category).
		Set("content", reg.Content).
		Set("embedding", toVector(reg.Embedding)).
		Set("updated_at", reg.UpdatedAt).
		Where(squirrel.Eq{"id": reg.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RegulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("regulations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RegulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Regulation, error) {
	query := squirrel.Select("id", "title", "category", "content", "embedding", "created_at", "updated_at").
		From("regulations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var reg models.Regulation
	var embedding pgtype.FlatArray[float32]
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&reg.ID, &reg.Title, &reg.Category, &reg.Content, &embedding, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.Embedding = []float32(embedding)

	return &reg, nil
}

func (r *RegulationRepository) List(ctx context.Context) ([]*models.Regulation, error) {
	query := squirrel.Select("id", "title", "category", "content", "embedding", "created_at", "updated_at").
		From("regulations").
		OrderBy("updated_at DESC").
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

	return scanRegulations(rows)
}

// Categories is the derived category view: a distinct projection over
// whatever strings the stored regulations currently use.
func (r *RegulationRepository) Categories(ctx context.Context) ([]string, error) {
	query := squirrel.Select("DISTINCT category").
		From("regulations").
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category ASC").
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

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// SearchSimilar returns up to limit regulations whose cosine similarity to
// the query vector is at least floor, best first, ties broken by most recent
// update.
func (r *RegulationRepository) SearchSimilar(ctx context.Context, embedding []float32, floor float64, limit int) ([]*models.Regulation, error) {
	vec := toVector(embedding)

	query := squirrel.Select("id", "title", "category", "content", "embedding", "created_at", "updated_at").
		Column(squirrel.Expr("1 - (embedding <=> ?) AS similarity", vec)).
		From("regulations").
		Where(squirrel.Expr("1 - (embedding <=> ?) >= ?", vec, floor)).
		OrderBy("similarity DESC", "updated_at DESC").
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

	var results []*models.Regulation
	for rows.Next() {
		var reg models.Regulation
		var emb pgtype.FlatArray[float32]
		var similarity float64

		if err := rows.Scan(
			&reg.ID, &reg.Title, &reg.Category, &reg.Content, &emb, &reg.CreatedAt, &reg.UpdatedAt, &similarity,
		); err != nil {
			return nil, err
		}

		reg.Embedding = []float32(emb)
		results = append(results, &reg)
	}

	return results, rows.Err()
}

// KeywordSearch is the degraded retrieval path: an OR'd ILIKE match of the
// given terms over title, category and content.
func (r *RegulationRepository) KeywordSearch(ctx context.Context, terms []string, limit int) ([]*models.Regulation, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	var match squirrel.Or
	for _, term := range terms {
		pattern := "%" + term + "%"
		match = append(match,
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"category": pattern},
			squirrel.ILike{"content": pattern},
		)
	}

	query := squirrel.Select("id", "title", "category", "content", "embedding", "created_at", "updated_at").
		From("regulations").
		Where(match).
		OrderBy("updated_at DESC").
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

	return scanRegulations(rows)
}
