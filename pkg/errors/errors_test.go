package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidation("bad input"), http.StatusBadRequest},
		{"conflict", NewConflict("email already exists", nil), http.StatusBadRequest},
		{"not found", NewNotFound("Patient"), http.StatusNotFound},
		{"internal", NewInternal(sql.ErrConnDone), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	err := fmt.Errorf("failed to get patient: %w", NewNotFound("Patient"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "Patient not found", appErr.PublicMessage())
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := NewInternal(fmt.Errorf("pq: connection refused"))

	assert.Equal(t, "internal server error", err.PublicMessage())
	assert.Contains(t, err.Error(), "connection refused")
}
