package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

type DiagramRepository struct {
	pool *pgxpool.Pool
}

func NewDiagramRepository(pool *pgxpool.Pool) *DiagramRepository {
	return &DiagramRepository{pool: pool}
}

const diagramColumns = `id, user_id, name, description, content, created_at, updated_at`

func scanDiagram(row pgx.Row) (*models.Diagram, error) {
	var d models.Diagram
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Description,
		&d.Content,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiagramRepository) Create(ctx context.Context, diagram *models.Diagram) error {
	diagram.Prepare()

	query := `
		INSERT INTO diagrams (id, user_id, name, description, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		diagram.ID,
		diagram.UserID,
		diagram.Name,
		diagram.Description,
		diagram.Content,
	).Scan(&diagram.CreatedAt, &diagram.UpdatedAt)
}

// GetByIDAndUserID returns nil, nil when the diagram does not exist or belongs
// to another user.
func (r *DiagramRepository) GetByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Diagram, error) {
	query := `SELECT ` + diagramColumns + ` FROM diagrams WHERE id = $1 AND user_id = $2`

	d, err := scanDiagram(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (r *DiagramRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Diagram, error) {
	query := `
		SELECT ` + diagramColumns + `
		FROM diagrams WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	diagrams := []models.Diagram{}
	for rows.Next() {
		d, err := scanDiagram(rows)
		if err != nil {
			return nil, err
		}
		diagrams = append(diagrams, *d)
	}

	return diagrams, rows.Err()
}

// Update writes name, description and content of a diagram owned by
// diagram.UserID. It reports false when no such row exists.
func (r *DiagramRepository) Update(ctx context.Context, diagram *models.Diagram) (bool, error) {
	query := `
		UPDATE diagrams SET
			name = $3, description = $4, content = $5
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		diagram.ID,
		diagram.UserID,
		diagram.Name,
		diagram.Description,
		diagram.Content,
	).Scan(&diagram.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteByIDAndUserID reports whether a row was removed.
func (r *DiagramRepository) DeleteByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM diagrams WHERE id = $1 AND user_id = $2`
	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
