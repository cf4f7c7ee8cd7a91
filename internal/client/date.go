package client

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// LocalDateLayout is the day/month/year layout used in spreadsheets.
const LocalDateLayout = "02/01/2006"

// fallbackLayouts are tried in order when the text is not a day/month/year triple.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// FormatLocalDate formats t as DD/MM/YYYY in local time.
func FormatLocalDate(t time.Time) string {
	return t.Local().Format(LocalDateLayout)
}

// ParseLocalDate parses a DD/MM/YYYY date, falling back to ISO layouts and
// Excel serial day numbers. Day and month are not range checked: out-of-range
// values roll over into the adjacent month or year, as time.Date does.
func ParseLocalDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if parts := strings.Split(text, "/"); len(parts) == 3 {
		if t, ok := parseDayMonthYear(parts); ok {
			return t, true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}

	// Excel stores dates as a day count; cells without a date format come back that way.
	if serial, err := strconv.ParseFloat(text, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
		}
	}

	return time.Time{}, false
}

// parseDayMonthYear reads each part's leading integer, so a trailing time
// such as "25/12/2024 10:30" is ignored.
func parseDayMonthYear(parts []string) (time.Time, bool) {
	nums := make([]int, 3)
	for i, p := range parts {
		n, ok := leadingInt(p)
		if !ok {
			return time.Time{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// leadingInt parses the optionally signed digits at the start of s.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
