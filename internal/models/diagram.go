package models

import (
	"time"

	"github.com/google/uuid"
)

// Diagram is the persisted canvas document of one ERD.
// Content is kept untyped; the codegen normalizer converts it on demand.
type Diagram struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Content     map[string]any `json:"content"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (d *Diagram) Prepare() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Content == nil {
		d.Content = map[string]any{"tables": []any{}}
	}
}
