package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"meshforge/internal/domain"
)

// ModelStorePG implements domain.ModelStore on PostgreSQL.
type ModelStorePG struct {
	pool *pgxpool.Pool
}

// NewModelStore creates a model registry backed by PostgreSQL.
func NewModelStore(pool *pgxpool.Pool) *ModelStorePG {
	return &ModelStorePG{pool: pool}
}

// GetActive fetches a registered, active generation model.
func (r *ModelStorePG) GetActive(ctx context.Context, modelID string) (*domain.GenerationModel, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, kind, is_active, created_at
FROM models
WHERE id = $1 AND is_active;
`, modelID)

	var m domain.GenerationModel
	var kind string
	if err := row.Scan(&m.ID, &m.Name, &kind, &m.Active, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m.Kind = domain.ModelKind(kind)
	return &m, nil
}

// ListActive returns all active generation models.
func (r *ModelStorePG) ListActive(ctx context.Context) ([]domain.GenerationModel, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, kind, is_active, created_at
FROM models
WHERE is_active
ORDER BY id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []domain.GenerationModel
	for rows.Next() {
		var m domain.GenerationModel
		var kind string
		if err := rows.Scan(&m.ID, &m.Name, &kind, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Kind = domain.ModelKind(kind)
		models = append(models, m)
	}
	return models, rows.Err()
}

// Upsert registers a model or refreshes its name/kind/active flag.
func (r *ModelStorePG) Upsert(ctx context.Context, m *domain.GenerationModel) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO models (id, name, kind, is_active)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, kind = EXCLUDED.kind, is_active = EXCLUDED.is_active;
`, m.ID, m.Name, string(m.Kind), m.Active)
	return err
}

var _ domain.ModelStore = (*ModelStorePG)(nil)
