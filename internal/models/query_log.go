package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog records one answered question. Append-only: rows are never
// mutated, only bulk- or point-deleted from the admin surface. The semantic
// answer cache is a similarity query over this table, so wiping it is also
// the cache invalidation path.
type QueryLog struct {
	ID        uuid.UUID  `db:"id"`
	UserID    *uuid.UUID `db:"user_id"` // nil for anonymous askers
	Question  string     `db:"question"`
	Answer    string     `db:"answer"`
	Embedding []float32  `db:"embedding"` // embedding of Question
	AskedAt   time.Time  `db:"asked_at"`
}
