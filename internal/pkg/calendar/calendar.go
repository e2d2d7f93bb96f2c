// Package calendar holds the deployment holiday list and the business-day
// counter used to size leave requests.
package calendar

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// DayLayout is the normalized calendar-day key. Holidays and leave dates are
// compared by this key, never by full timestamps.
const DayLayout = "2006-01-02"

// DayKey returns the calendar-day key of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// HolidayCalendar is an ordered, read-only set of holiday dates.
type HolidayCalendar struct {
	days  map[string]struct{}
	dates []time.Time
}

// NewHolidayCalendar builds a calendar from dates; duplicates collapse.
func NewHolidayCalendar(dates ...time.Time) *HolidayCalendar {
	c := &HolidayCalendar{days: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		key := DayKey(d)
		if _, ok := c.days[key]; ok {
			continue
		}
		c.days[key] = struct{}{}
		c.dates = append(c.dates, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	sort.Slice(c.dates, func(i, j int) bool { return c.dates[i].Before(c.dates[j]) })
	return c
}

// ParseHolidayCalendar builds a calendar from YYYY-MM-DD strings.
func ParseHolidayCalendar(values []string) (*HolidayCalendar, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(DayLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", v, err)
		}
		dates = append(dates, d)
	}
	return NewHolidayCalendar(dates...), nil
}

type holidayFile struct {
	Holidays []struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
	} `yaml:"holidays"`
}

// LoadFile reads a YAML holiday list:
//
//	holidays:
//	  - date: 2026-01-26
//	    name: Republic Day
func LoadFile(path string) (*HolidayCalendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	var f holidayFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file: %w", err)
	}

	values := make([]string, 0, len(f.Holidays))
	for _, h := range f.Holidays {
		values = append(values, h.Date)
	}
	return ParseHolidayCalendar(values)
}

// IsHoliday reports whether t falls on a listed holiday.
func (c *HolidayCalendar) IsHoliday(t time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.days[DayKey(t)]
	return ok
}

// Dates returns the holidays in ascending order.
func (c *HolidayCalendar) Dates() []time.Time {
	if c == nil {
		return nil
	}
	out := make([]time.Time, len(c.dates))
	copy(out, c.dates)
	return out
}

// Len returns the number of holidays.
func (c *HolidayCalendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.dates)
}

// IsWorkingDay reports whether t is neither a weekend day nor a holiday.
func IsWorkingDay(t time.Time, holidays *HolidayCalendar) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !holidays.IsHoliday(t)
}

// CountWorkingDays counts the business days in the inclusive range
// [start, end]. It returns 0 when end is before start.
func CountWorkingDays(start, end time.Time, holidays *HolidayCalendar) int {
	current := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	count := 0
	for !current.After(last) {
		if IsWorkingDay(current, holidays) {
			count++
		}
		current = current.AddDate(0, 0, 1)
	}
	return count
}
