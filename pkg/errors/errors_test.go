package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	tlerrors "timelinechart/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := tlerrors.NewNotFoundError("mark", "a|x|100")
	assert.Equal(t, `mark "a|x|100" not found`, err.Error())
	assert.True(t, errors.Is(err, tlerrors.ErrNotFound))
	assert.True(t, tlerrors.IsNotFound(fmt.Errorf("wrapped: %w", err)))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := tlerrors.NewValidationError("events[0].id", "", "must not be empty")
		assert.Equal(t, "validation failed for field events[0].id: must not be empty", err.Error())
		assert.True(t, errors.Is(err, tlerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &tlerrors.ValidationError{Message: "no events"}
		assert.Equal(t, "validation failed: no events", err.Error())
		assert.True(t, tlerrors.IsValidationError(errors.Join(errors.New("x"), err)))
	})
}

func TestLoadError(t *testing.T) {
	base := errors.New("connection refused")
	err := tlerrors.NewLoadError("http://example.test/timeline.json", base)
	assert.Contains(t, err.Error(), "http://example.test/timeline.json")
	assert.ErrorIs(t, err, base)
	assert.True(t, tlerrors.IsLoadError(err))
	assert.False(t, tlerrors.IsLoadError(base))
}

func TestConfigError(t *testing.T) {
	err := tlerrors.NewConfigError("zoom", "scale_min must be positive", nil)
	assert.Equal(t, "configuration error in zoom: scale_min must be positive", err.Error())
	assert.ErrorIs(t, err, tlerrors.ErrInvalidInput)

	wrapped := tlerrors.NewConfigError("", "reading file", errors.New("boom"))
	assert.Equal(t, "configuration error: reading file: boom", wrapped.Error())
}
