package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"crm-backend/internal/models"
)

// CreateInvitation issues a fresh single-use token for (org, email). Any
// pending invitation for the same pair is superseded in the same
// transaction, so at most one live invitation exists per pair.
func (s *Storage) CreateInvitation(ctx context.Context, orgID, email string) (*models.MembershipInvitation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM membership_invitations
		WHERE org_id = $1 AND email = $2
	`, orgID, email)
	if err != nil {
		return nil, err
	}

	var inv models.MembershipInvitation
	err = tx.QueryRowContext(ctx, `
		INSERT INTO membership_invitations (org_id, email, token)
		VALUES ($1, $2, $3)
		RETURNING id, org_id, email, token, created_at
	`, orgID, email, uuid.NewString()).Scan(
		&inv.ID,
		&inv.OrgID,
		&inv.Email,
		&inv.Token,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (s *Storage) GetInvitationByToken(ctx context.Context, token string) (*models.MembershipInvitation, error) {
	query := `
		SELECT id, org_id, email, token, created_at
		FROM membership_invitations
		WHERE token = $1
	`

	var inv models.MembershipInvitation
	if err := s.db.GetContext(ctx, &inv, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	return &inv, nil
}

// ConsumeInvitation turns a pending token into a membership and deletes the
// invitation, atomically. A replayed token hits the ErrInvitationNotFound
// branch; a caller who is already a member loses nothing (the membership
// insert is conditional) but still consumes the token. The returned bool
// reports whether a membership row was actually created.
func (s *Storage) ConsumeInvitation(ctx context.Context, token, userID, role string) (*models.MembershipInvitation, bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var inv models.MembershipInvitation
	err = tx.QueryRowContext(ctx, `
		SELECT id, org_id, email, token, created_at
		FROM membership_invitations
		WHERE token = $1
		FOR UPDATE
	`, token).Scan(&inv.ID, &inv.OrgID, &inv.Email, &inv.Token, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, ErrInvitationNotFound
	}
	if err != nil {
		return nil, false, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO memberships (user_id, org_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, org_id) DO NOTHING
	`, userID, inv.OrgID, role)
	if err != nil {
		return nil, false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM membership_invitations
		WHERE id = $1
	`, inv.ID)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &inv, inserted > 0, nil
}
