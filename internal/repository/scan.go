package repository

import (
	"github.com/TeranHc/ugtesis/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// toVector converts an embedding slice to the pgvector-compatible array type.
func toVector(embedding []float32) pgtype.FlatArray[float32] {
	vec := pgtype.FlatArray[float32]{}
	for _, v := range embedding {
		vec = append(vec, v)
	}
	return vec
}

func scanRegulations(rows pgx.Rows) ([]*models.Regulation, error) {
	var results []*models.Regulation
	for rows.Next() {
		var reg models.Regulation
		var emb pgtype.FlatArray[float32]

		if err := rows.Scan(
			&reg.ID, &reg.Title, &reg.Category, &reg.Content, &emb, &reg.CreatedAt, &reg.UpdatedAt,
		); err != nil {
			return nil, err
		}

		reg.Embedding = []float32(emb)
		results = append(results, &reg)
	}

	return results, rows.Err()
}
