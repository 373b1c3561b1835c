package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	require.True(t, isUniqueViolation(fmt.Errorf("insert user: %w", &pq.Error{Code: "23505"})))
	require.False(t, isUniqueViolation(&pq.Error{Code: "22P02"}))
	require.False(t, isUniqueViolation(errors.New("connection reset")))
}

func TestIsInvalidText(t *testing.T) {
	require.True(t, isInvalidText(&pq.Error{Code: "22P02"}))
	require.True(t, isInvalidText(fmt.Errorf("get organization: %w", &pq.Error{Code: "22P02"})))
	require.False(t, isInvalidText(&pq.Error{Code: "23505"}))
	require.False(t, isInvalidText(nil))
}
