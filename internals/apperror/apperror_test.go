package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, 404, NotFound(CodeEventNotFound, "missing").Status())
	assert.Equal(t, 409, Conflict(CodeUserAlreadyAttendee, "dup").Status())
	assert.Equal(t, 403, Forbidden(CodeNoPermission, "denied").Status())
	assert.Equal(t, 400, Validation(CodeInvalidData, "bad").Status())
	assert.Equal(t, 500, Internal(errors.New("boom")).Status())
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("disk full")
	wrapped := From(plain)
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.True(t, errors.Is(wrapped, plain))

	conflict := Conflict(CodeEventFull, "full")
	assert.Same(t, conflict, From(conflict))
	assert.Same(t, conflict, From(fmt.Errorf("joining: %w", conflict)))
}

func TestIsKind(t *testing.T) {
	err := Validation(CodeInvalidData, "bad", Detail{Field: "price", Code: "price_required"})
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindValidation))
}
