package storage

import (
	"context"
	"database/sql"

	"crm-backend/internal/models"
)

func (s *Storage) ListStatuses(ctx context.Context) ([]models.Status, error) {
	query := `SELECT id, name, status_group FROM statuses ORDER BY name`

	statuses := make([]models.Status, 0)
	if err := s.db.SelectContext(ctx, &statuses, query); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *Storage) GetStatus(ctx context.Context, id string) (*models.Status, error) {
	var status models.Status
	err := s.db.GetContext(ctx, &status, `SELECT id, name, status_group FROM statuses WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// SeedStatuses inserts the fixed status taxonomy if it is not present.
// Safe to run on every boot.
func (s *Storage) SeedStatuses(ctx context.Context) error {
	for _, group := range models.AllGroups() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO statuses (name, status_group)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, group.Label(), string(group))
		if err != nil {
			return err
		}
	}
	return nil
}
