package models

import (
	"time"

	"github.com/google/uuid"
)

// Regulation is a single entry of the university knowledge base.
// Embedding is always derived from Content: every create/update recomputes
// and replaces it in the same statement that writes the text.
type Regulation struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Category  string    `db:"category"` // open string domain, no fixed list
	Content   string    `db:"content"`
	Embedding []float32 `db:"embedding"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
