package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCountWorkingDays_FullWeekIsFive(t *testing.T) {
	// every possible starting weekday
	start := day("2026-03-02")
	for i := 0; i < 7; i++ {
		s := start.AddDate(0, 0, i)
		e := s.AddDate(0, 0, 6)
		assert.Equal(t, 5, CountWorkingDays(s, e, nil), "week starting %s", DayKey(s))
	}
}

func TestCountWorkingDays(t *testing.T) {
	holidays := NewHolidayCalendar(day("2026-01-26"), day("2026-03-04"))

	cases := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single weekday", "2026-03-03", "2026-03-03", 1},
		{"single holiday", "2026-01-26", "2026-01-26", 0},
		{"saturday", "2026-03-07", "2026-03-07", 0},
		{"weekend pair", "2026-03-07", "2026-03-08", 0},
		{"mon to wed", "2026-03-09", "2026-03-11", 3},
		{"holiday mid week", "2026-03-02", "2026-03-06", 4},
		{"two weeks", "2026-03-09", "2026-03-22", 10},
		{"end before start", "2026-03-10", "2026-03-09", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CountWorkingDays(day(c.start), day(c.end), holidays))
		})
	}
}

func TestCountWorkingDays_IgnoresTimeOfDay(t *testing.T) {
	holidays := NewHolidayCalendar(day("2026-03-04"))

	start := time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)

	assert.True(t, holidays.IsHoliday(start))
	assert.Equal(t, 1, CountWorkingDays(start, end, holidays))
}

func TestParseHolidayCalendar(t *testing.T) {
	c, err := ParseHolidayCalendar([]string{"2026-12-25", "2026-01-01", "2026-12-25"})
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	dates := c.Dates()
	assert.Equal(t, "2026-01-01", DayKey(dates[0]))
	assert.Equal(t, "2026-12-25", DayKey(dates[1]))

	_, err = ParseHolidayCalendar([]string{"25/12/2026"})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	content := `holidays:
  - date: "2026-01-26"
    name: Republic Day
  - date: "2026-08-15"
    name: Independence Day
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.IsHoliday(day("2026-08-15")))
	assert.False(t, c.IsHoliday(day("2026-08-14")))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNilCalendar(t *testing.T) {
	var c *HolidayCalendar
	assert.False(t, c.IsHoliday(day("2026-01-01")))
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Dates())
}
