package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.June, 1), d)
	assert.Equal(t, "2024-06-01", d.String())

	for _, bad := range []string{"", "2024-6-1", "2024-02-30", "2024-13-01", "06/01/2024"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestArithmetic(t *testing.T) {
	d := New(2024, time.February, 28)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.Equal(t, -7, d.DaysUntil(d.AddDays(-7)))
	assert.True(t, d.Equal(New(2024, time.February, 28)))
}

func TestFromTimeDropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	d := FromTime(time.Date(2024, time.June, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, "2024-06-10", d.String())
}

func TestPtrCopies(t *testing.T) {
	d := New(2024, time.June, 1)
	p := d.Ptr()
	*p = p.AddDays(1)
	assert.Equal(t, "2024-06-01", d.String())
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Due Date `json:"due"`
	}{New(2024, time.June, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-06-01"}`, string(data))

	var out struct {
		Due Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2024-06-01", out.Due.String())
	assert.Error(t, json.Unmarshal([]byte(`{"due":"soon"}`), &out))
}

func TestYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Date{"due": New(2024, time.June, 1)})
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-06-01")

	var out map[string]Date
	require.NoError(t, yaml.Unmarshal([]byte("due: 2024-07-04\n"), &out))
	assert.Equal(t, "2024-07-04", out["due"].String())
}

func TestAddMonthsClampsDay(t *testing.T) {
	tests := []struct {
		from Date
		n    int
		want string
	}{
		{New(2024, time.January, 31), 1, "2024-02-29"},
		{New(2023, time.January, 31), 1, "2023-02-28"},
		{New(2024, time.March, 15), 1, "2024-04-15"},
		{New(2024, time.December, 31), 2, "2025-02-28"},
		{New(2024, time.February, 29), 12, "2025-02-28"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.AddMonths(tt.n).String(), tt.from.String())
	}
}

func TestCompare(t *testing.T) {
	early := New(2024, time.June, 1).Ptr()
	late := New(2024, time.June, 2).Ptr()

	assert.Equal(t, -1, Compare(early, late))
	assert.Equal(t, 1, Compare(late, early))
	assert.Equal(t, 0, Compare(early, New(2024, time.June, 1).Ptr()))
	assert.Equal(t, -1, Compare(early, nil))
	assert.Equal(t, 1, Compare(nil, early))
	assert.Equal(t, 0, Compare(nil, nil))
}
