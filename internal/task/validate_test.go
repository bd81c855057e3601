package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

func TestParseDateInput(t *testing.T) {
	for _, in := range []string{"", "  ", "none", "NONE"} {
		got, err := ParseDateInput("due", in)
		require.NoError(t, err, in)
		assert.Nil(t, got, in)
	}

	got, err := ParseDateInput("due", " 2024-06-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", got.String())

	_, err = ParseDateInput("due", "tomorrow")
	require.Error(t, err)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.InvalidDate, cliErr.Code)
	assert.Equal(t, "due", cliErr.Details["field"])
}

func TestValidateIsTask(t *testing.T) {
	p := NewParser(nil)
	assert.NoError(t, ValidateIsTask(p.Parse("- [ ] task", "")))

	err := ValidateIsTask(p.ParseAt("- not a task", "notes.md", 2))
	require.Error(t, err)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.NotATask, cliErr.Code)
	assert.Equal(t, 3, cliErr.Details["line"])
}

func TestValidateStatusDetails(t *testing.T) {
	err := ValidateStatus("blocked")
	assert.Equal(t, clierr.InvalidStatus, err.Code)
	assert.Equal(t, StatusNames(), err.Details["allowed"])
}
