package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("rewriting: %w", Newf(LineChanged, "line %d changed", 3))

	assert.ErrorIs(t, err, New(LineChanged, ""))
	assert.NotErrorIs(t, err, New(FileNotFound, ""))

	var cliErr *Error
	assert.True(t, errors.As(err, &cliErr))
	assert.Equal(t, "line 3 changed", cliErr.Message)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, New(InvalidDate, "bad").ExitCode())
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
	assert.Equal(t, "exit 1", (&SilentError{Code: 1}).Error())
}

func TestWithDetails(t *testing.T) {
	err := New(InvalidLocation, "bad location").WithDetails(map[string]any{"input": "a.md"})
	assert.Equal(t, "a.md", err.Details["input"])
}

func TestAs(t *testing.T) {
	e, ok := As(fmt.Errorf("wrapped: %w", New(NotATask, "plain line")))
	assert.True(t, ok)
	assert.Equal(t, NotATask, e.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
