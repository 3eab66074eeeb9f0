package query

import (
	"ProjectFinance/internal/api/finance"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		c, err := ParseCriteria(finance.RawFilter{})
		require.NoError(t, err)
		assert.Nil(t, c.MinAmount)
		assert.Nil(t, c.MaxAmount)
		assert.Nil(t, c.StartDate)
		assert.Nil(t, c.EndDate)
		assert.Nil(t, c.Year)
		assert.Nil(t, c.Month)
	})

	t.Run("typed values", func(t *testing.T) {
		c, err := ParseCriteria(finance.RawFilter{
			Type:      "expense",
			Category:  "food",
			Keyword:   "Lunch",
			MinAmount: "10.50",
			MaxAmount: " 200 ",
			StartDate: "2024-06-01",
			EndDate:   "2024-06-30T18:30:00+07:00",
			Year:      "2024",
			Month:     "6",
		})
		require.NoError(t, err)
		assert.Equal(t, "expense", c.Type)
		assert.Equal(t, "food", c.Category)
		assert.Equal(t, "Lunch", c.Keyword)
		assert.Equal(t, "10.5", c.MinAmount.String())
		assert.Equal(t, "200", c.MaxAmount.String())
		assert.Equal(t, utc(2024, time.June, 1), *c.StartDate)
		assert.Equal(t, time.Date(2024, time.June, 30, 11, 30, 0, 0, time.UTC), *c.EndDate)
		assert.Equal(t, 2024, *c.Year)
		assert.Equal(t, 6, *c.Month)
	})

	t.Run("unknown type and category are kept", func(t *testing.T) {
		c, err := ParseCriteria(finance.RawFilter{Type: "transfer", Category: "pets"})
		require.NoError(t, err)
		assert.Equal(t, "transfer", c.Type)
		assert.Equal(t, "pets", c.Category)
	})

	invalid := []struct {
		name string
		raw  finance.RawFilter
	}{
		{"min amount", finance.RawFilter{MinAmount: "ten"}},
		{"max amount", finance.RawFilter{MaxAmount: "1,000"}},
		{"start date", finance.RawFilter{StartDate: "yesterday"}},
		{"end date", finance.RawFilter{EndDate: "2024-02-30"}},
		{"year", finance.RawFilter{Year: "twenty"}},
		{"month", finance.RawFilter{Month: "june"}},
		{"year beyond 9999", finance.RawFilter{Year: "99999999999"}},
		{"year zero", finance.RawFilter{Year: "0"}},
		{"month overflowing the year range", finance.RawFilter{Month: "9999999999"}},
	}
	for _, tc := range invalid {
		t.Run("invalid "+tc.name, func(t *testing.T) {
			_, err := ParseCriteria(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, finance.ErrInvalidParameter))
		})
	}
}

func TestParseYear(t *testing.T) {
	y, err := ParseYear(" 2024 ")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)

	for _, raw := range []string{"", "twenty", "0", "-5", "10000", "99999999999"} {
		_, err := ParseYear(raw)
		assert.ErrorIs(t, err, finance.ErrInvalidParameter, raw)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		"2024-06-01":                utc(2024, time.June, 1),
		"2024-06-01T08:15":          time.Date(2024, time.June, 1, 8, 15, 0, 0, time.UTC),
		"2024-06-01T08:15:30":       time.Date(2024, time.June, 1, 8, 15, 30, 0, time.UTC),
		"2024-06-01T08:15:30Z":      time.Date(2024, time.June, 1, 8, 15, 30, 0, time.UTC),
		"2024-06-01T08:15:30.250Z":  time.Date(2024, time.June, 1, 8, 15, 30, 250000000, time.UTC),
		"2024-06-01T08:15:30-02:00": time.Date(2024, time.June, 1, 10, 15, 30, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: want %s got %s", in, want, got)
	}

	_, err := ParseTimestamp("06/01/2024")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)
}
