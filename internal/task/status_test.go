package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

func TestStatusFromSymbol(t *testing.T) {
	tests := []struct {
		symbol rune
		want   Status
	}{
		{' ', Todo},
		{'/', InProgress},
		{'x', Done},
		{'X', Done},
		{'-', Cancelled},
		{'Q', NonTask},
		{'?', Todo},
		{'!', Todo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromSymbol(tt.symbol), string(tt.symbol))
	}
}

func TestStatusSymbolRoundTrip(t *testing.T) {
	for _, s := range DefaultStatusOptions {
		assert.Equal(t, s, StatusFromSymbol(s.Symbol()), s.String())
	}
}

func TestStatusNext(t *testing.T) {
	assert.Equal(t, Done, Todo.Next())
	assert.Equal(t, Done, InProgress.Next())
	assert.Equal(t, Todo, Done.Next())
	assert.Equal(t, Todo, Cancelled.Next())
	assert.Equal(t, NonTask, NonTask.Next())
}

func TestStatusIsDoneClass(t *testing.T) {
	assert.True(t, Done.IsDoneClass())
	assert.True(t, Cancelled.IsDoneClass())
	assert.False(t, Todo.IsDoneClass())
	assert.False(t, InProgress.IsDoneClass())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"todo", Todo},
		{" Done ", Done},
		{"in-progress", InProgress},
		{"in_progress", InProgress},
		{"canceled", Cancelled},
		{"cancelled", Cancelled},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStatus("blocked")
	require.Error(t, err)
	assert.True(t, errors.Is(err, clierr.New(clierr.InvalidStatus, "")))
}

func TestStatusMarshalText(t *testing.T) {
	b, err := InProgress.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "in-progress", string(b))
	assert.Equal(t, "unknown", Status(42).String())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, "", Normal.Symbol())
	assert.Equal(t, "⏫", High.Symbol())
	assert.Equal(t, "highest", Highest.String())

	for _, p := range Priorities {
		if p == Normal {
			continue
		}
		got, ok := priorityFromSymbol(p.Symbol())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}

	got, err := ParsePriority("LOW")
	require.NoError(t, err)
	assert.Equal(t, Low, got)

	_, err = ParsePriority("urgent")
	assert.True(t, errors.Is(err, clierr.New(clierr.InvalidPriority, "")))
}
