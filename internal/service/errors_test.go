package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	t.Run("constructors classify", func(t *testing.T) {
		assert.Equal(t, KindValidation, KindOf(Validationf("Op", "bad input")))
		assert.Equal(t, KindNotFound, KindOf(NotFoundf("Op", "missing")))
		assert.Equal(t, KindConflict, KindOf(Conflictf("Op", "duplicate")))
		assert.Equal(t, KindInternal, KindOf(Internal("Op", errors.New("boom"))))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("raw")))
		assert.Equal(t, KindInternal, KindOf(nil))
	})

	t.Run("classification survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NotFoundf("FindProject", "project not found"))
		assert.True(t, IsNotFound(err))
	})

	t.Run("message drops the op prefix", func(t *testing.T) {
		err := Validationf("ValidateProject", "project name is required")
		assert.Equal(t, "project name is required", Message(err))
		assert.Contains(t, err.Error(), "ValidateProject")
	})
}
