package storage

import (
	"context"

	"crm-backend/internal/models"
)

func (s *Storage) InsertActivity(ctx context.Context, orgID, kind string, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (org_id, kind, payload)
		VALUES ($1, $2, $3)
	`, orgID, kind, payload)
	return err
}

func (s *Storage) ActivityByOrganization(ctx context.Context, orgID string, limit int) ([]models.Activity, error) {
	query := `
		SELECT id, org_id, kind, payload, created_at
		FROM activities
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	activities := make([]models.Activity, 0)
	if err := s.db.SelectContext(ctx, &activities, query, orgID, limit); err != nil {
		return nil, err
	}
	return activities, nil
}
