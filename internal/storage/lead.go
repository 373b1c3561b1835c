package storage

import (
	"context"
	"database/sql"
	"time"

	"crm-backend/internal/models"
)

const leadColumns = `id, org_id, first_name, last_name, order_description, price,
	email, phone, comment, manager_id, status_id, date_created, date_updated`

func (s *Storage) CreateLead(ctx context.Context, orgID string, input models.LeadInput) (*models.Lead, error) {
	query := `
		INSERT INTO leads (org_id, first_name, last_name, order_description, price,
			email, phone, comment, manager_id, status_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + leadColumns

	var lead models.Lead
	err := s.db.GetContext(ctx, &lead, query,
		orgID,
		input.FirstName,
		input.LastName,
		input.Order,
		input.Price,
		input.Email,
		input.Phone,
		input.Comment,
		input.ManagerID,
		input.StatusID,
	)
	if err != nil {
		return nil, err
	}

	return &lead, nil
}

func (s *Storage) GetLead(ctx context.Context, orgID, leadID string) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND org_id = $2`

	var lead models.Lead
	if err := s.db.GetContext(ctx, &lead, query, leadID, orgID); err != nil {
		if err == sql.ErrNoRows || isInvalidText(err) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	return &lead, nil
}

func (s *Storage) UpdateLead(ctx context.Context, orgID, leadID string, input models.LeadInput) (*models.Lead, error) {
	query := `
		UPDATE leads
		SET first_name = $1, last_name = $2, order_description = $3, price = $4,
			email = $5, phone = $6, comment = $7, manager_id = $8, status_id = $9,
			date_updated = NOW()
		WHERE id = $10 AND org_id = $11
		RETURNING ` + leadColumns

	var lead models.Lead
	err := s.db.GetContext(ctx, &lead, query,
		input.FirstName,
		input.LastName,
		input.Order,
		input.Price,
		input.Email,
		input.Phone,
		input.Comment,
		input.ManagerID,
		input.StatusID,
		leadID,
		orgID,
	)
	if err != nil {
		if err == sql.ErrNoRows || isInvalidText(err) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	return &lead, nil
}

func (s *Storage) DeleteLead(ctx context.Context, orgID, leadID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND org_id = $2`, leadID, orgID)
	if err != nil {
		if isInvalidText(err) {
			return ErrLeadNotFound
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (s *Storage) LeadsByOrganization(ctx context.Context, orgID string) ([]models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE org_id = $1 ORDER BY date_created DESC`

	leads := make([]models.Lead, 0)
	if err := s.db.SelectContext(ctx, &leads, query, orgID); err != nil {
		return nil, err
	}
	return leads, nil
}

// LeadsCreatedBetween returns the organization's leads created in
// [start, end); end is exclusive.
func (s *Storage) LeadsCreatedBetween(ctx context.Context, orgID string, start, end time.Time) ([]models.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE org_id = $1 AND date_created >= $2 AND date_created < $3
		ORDER BY date_created DESC
	`

	leads := make([]models.Lead, 0)
	if err := s.db.SelectContext(ctx, &leads, query, orgID, start, end); err != nil {
		return nil, err
	}
	return leads, nil
}
