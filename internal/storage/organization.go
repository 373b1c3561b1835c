package storage

import (
	"context"
	"database/sql"

	"crm-backend/internal/models"
)

// CreateOrganizationWithOwner inserts the organization and the creator's
// owner membership in one transaction.
func (s *Storage) CreateOrganizationWithOwner(ctx context.Context, name, ownerID string) (*models.Organization, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var org models.Organization
	err = tx.QueryRowContext(ctx, `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (user_id, org_id, role)
		VALUES ($1, $2, $3)
	`, ownerID, org.ID, models.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *Storage) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	query := `
		SELECT id, name, created_at
		FROM organizations
		WHERE id = $1
	`

	var org models.Organization
	if err := s.db.GetContext(ctx, &org, query, id); err != nil {
		if err == sql.ErrNoRows || isInvalidText(err) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	return &org, nil
}

func (s *Storage) OrganizationsForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	query := `
		SELECT o.id, o.name, o.created_at
		FROM organizations o
		JOIN memberships m ON m.org_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at
	`

	orgs := make([]models.Organization, 0)
	if err := s.db.SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *Storage) ListOrganizationIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM organizations`); err != nil {
		return nil, err
	}
	return ids, nil
}

// OrganizationMembers returns the users holding a membership in the
// organization. These are the manager candidates for its leads.
func (s *Storage) OrganizationMembers(ctx context.Context, orgID string) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.created_at
		FROM users u
		JOIN memberships m ON m.user_id = u.id
		WHERE m.org_id = $1
		ORDER BY m.created_at
	`

	users := make([]models.User, 0)
	if err := s.db.SelectContext(ctx, &users, query, orgID); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Storage) OrganizationMemberships(ctx context.Context, orgID string) ([]models.Member, error) {
	query := `
		SELECT u.id AS user_id, u.email, u.first_name, u.last_name, m.role, m.created_at AS joined_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.org_id = $1
		ORDER BY m.created_at
	`

	members := make([]models.Member, 0)
	if err := s.db.SelectContext(ctx, &members, query, orgID); err != nil {
		return nil, err
	}
	return members, nil
}

// HasMembership reports whether the user holds a membership in the
// organization. Callers resolve the organization first so a missing org maps
// to not-found rather than forbidden.
func (s *Storage) HasMembership(ctx context.Context, userID, orgID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM memberships WHERE user_id = $1 AND org_id = $2
		)
	`, userID, orgID)
	return exists, err
}

// IsOwner refines HasMembership: the membership's role must be "owner".
func (s *Storage) IsOwner(ctx context.Context, userID, orgID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM memberships WHERE user_id = $1 AND org_id = $2 AND role = $3
		)
	`, userID, orgID, models.RoleOwner)
	return exists, err
}
