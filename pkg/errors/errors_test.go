package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{
			name:   "not found",
			err:    NotFoundError("course"),
			target: ErrNotFound,
			msg:    "course not found",
		},
		{
			name:   "invalid input",
			err:    InvalidInputError("rating", "must be between 1 and 5"),
			target: ErrInvalidInput,
			msg:    "rating: must be between 1 and 5: invalid input",
		},
		{
			name:   "conflict",
			err:    ConflictError("admin already exists"),
			target: ErrConflict,
			msg:    "admin already exists: conflict",
		},
		{
			name:   "backend",
			err:    BackendError("list courses", cause),
			target: ErrBackendUnavailable,
			msg:    "list courses: backend unavailable: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.target))
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestBackendError_KeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := BackendError("get course", cause)

	assert.True(t, errors.Is(err, cause))
	assert.False(t, Is(err, ErrNotFound))
}
