package monthkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndParse(t *testing.T) {
	key := Format(2025, time.March)
	assert.Equal(t, "2025-03", key)

	year, month, err := Parse(key)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.March, month)

	_, _, err = Parse("2025-3")
	require.Error(t, err)
	_, _, err = Parse("garbage")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "2024-12", Normalize(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01", Normalize(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFirstOfMonth(t *testing.T) {
	got, err := FirstOfMonth("2024-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestPrev(t *testing.T) {
	prev, err := Prev("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12", prev, "crosses the year boundary")

	prev, err = Prev("2025-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-05", prev)
}
