package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("loan not found: %d", 7)))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("only monitors can perform this action")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already returned")))
	assert.Equal(t, KindInternal, KindOf(errors.New("connection refused")))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("schedule practice: %w", Conflict("lab is busy"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestMessageFormatting(t *testing.T) {
	err := Validation("The laboratory '%s' cannot accommodate %d students (capacity: %d)", "Main", 19, 18)
	assert.Equal(t, "The laboratory 'Main' cannot accommodate 19 students (capacity: 18)", err.Error())
}
