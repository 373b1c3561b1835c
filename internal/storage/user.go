package storage

import (
	"context"
	"database/sql"

	"crm-backend/internal/models"
)

func (s *Storage) CreateUser(ctx context.Context, input models.SignupInput, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, password_hash, created_at
	`

	var user models.User
	err := s.db.QueryRowContext(ctx, query, input.Email, input.FirstName, input.LastName, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
