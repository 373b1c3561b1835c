package storage

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrgNotFound        = errors.New("organization not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrInvitationNotFound = errors.New("invitation not found")
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// isInvalidText reports a 22P02 invalid_text_representation error: a
// syntactically malformed value, such as a non-UUID id, hit a typed column.
// Lookups treat these the same as a missing row.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "22P02"
	}
	return false
}
