package apperr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "not found", err: apperr.NotFound("user"), kind: apperr.ErrNotFound},
		{name: "validation", err: apperr.Validation("field %s", "date"), kind: apperr.ErrValidation},
		{name: "forbidden", err: apperr.Forbidden("not enough permissions"), kind: apperr.ErrForbidden},
		{name: "conflict", err: apperr.Conflict("user", "email already registered"), kind: apperr.ErrConflict},
		{name: "persistence", err: apperr.Persistence("storage.CreateTraining", sql.ErrConnDone), kind: apperr.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			for _, other := range []error{apperr.ErrNotFound, apperr.ErrValidation, apperr.ErrForbidden, apperr.ErrConflict, apperr.ErrPersistence} {
				if other != tt.kind {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestPersistence_KeepsCause(t *testing.T) {
	err := apperr.Persistence("storage.GetUser", sql.ErrConnDone)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "persistence error: storage.GetUser: sql: connection is already closed", err.Error())
}

func TestEntity(t *testing.T) {
	err := fmt.Errorf("op: %w", apperr.NotFound("category"))

	assert.Equal(t, "category", apperr.Entity(err))
	assert.Equal(t, "", apperr.Entity(errors.New("plain")))
	assert.Equal(t, "not found: category", apperr.NotFound("category").Error())
}
