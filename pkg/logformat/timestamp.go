package logformat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampParser detects and parses timestamps from log lines.
//
// Rules are tried in priority order and the first rule whose regex matches
// the line decides the candidate substring. If that substring fails to parse
// (e.g. an impossible calendar date), the remaining rules are still tried.
type TimestampParser struct {
	// Now supplies the current time used to fill in the year (and, for
	// time-of-day formats, the date) of formats that lack them. Defaults
	// to time.Now so it can be pinned in tests.
	Now func() time.Time

	rules []timestampRule
}

type timestampRule struct {
	regex  *regexp.Regexp
	layout string
	kind   ruleKind
}

type ruleKind int

const (
	kindAbsolute ruleKind = iota
	kindNoYear            // month/day present, year missing
	kindTimeOnly          // only time of day present
	kindEpochSec
	kindEpochMilli
)

// NewTimestampParser creates a parser covering the common timestamp formats.
func NewTimestampParser() *TimestampParser {
	return &TimestampParser{
		Now: time.Now,
		rules: []timestampRule{
			// 2024-01-15T10:30:45.123 / 2024-01-15 10:30:45,123456
			{
				regex:  regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}[.,]\d+)`),
				layout: "2006-01-02 15:04:05.999999999",
				kind:   kindAbsolute,
			},
			// 2024-01-15T10:30:45 / 2024-01-15 10:30:45
			{
				regex:  regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2})`),
				layout: "2006-01-02 15:04:05",
				kind:   kindAbsolute,
			},
			// Android logcat style: 01-15 10:30:45.123
			{
				regex:  regexp.MustCompile(`\b(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+)`),
				layout: "01-02 15:04:05.999999999",
				kind:   kindNoYear,
			},
			// Syslog: Jan 15 10:30:45 (day may be space padded)
			{
				regex:  regexp.MustCompile(`\b([A-Z][a-z]{2} +\d{1,2} \d{2}:\d{2}:\d{2})`),
				layout: "Jan _2 15:04:05",
				kind:   kindNoYear,
			},
			// Apache/nginx access log: 15/Jan/2024:10:30:45
			{
				regex:  regexp.MustCompile(`\b(\d{2}/[A-Z][a-z]{2}/\d{4}:\d{2}:\d{2}:\d{2})`),
				layout: "02/Jan/2006:15:04:05",
				kind:   kindAbsolute,
			},
			// Bare time of day with fraction: 10:30:45.123
			{
				regex:  regexp.MustCompile(`\b(\d{2}:\d{2}:\d{2}\.\d+)`),
				layout: "15:04:05.999999999",
				kind:   kindTimeOnly,
			},
			// Bare time of day: 10:30:45
			{
				regex:  regexp.MustCompile(`\b(\d{2}:\d{2}:\d{2})`),
				layout: "15:04:05",
				kind:   kindTimeOnly,
			},
			// Epoch milliseconds: 1705315845123
			{
				regex: regexp.MustCompile(`\b(\d{13})\b`),
				kind:  kindEpochMilli,
			},
			// Epoch seconds: 1705315845
			{
				regex: regexp.MustCompile(`\b(\d{10})\b`),
				kind:  kindEpochSec,
			},
		},
	}
}

// Extract attempts to pull a timestamp out of a log line.
// The boolean is false when no rule matched or every match failed to parse.
func (p *TimestampParser) Extract(line string) (time.Time, bool) {
	for _, rule := range p.rules {
		m := rule.regex.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}

		t, err := p.parseMatch(rule, m[1])
		if err != nil {
			// Invalid date inside a matching substring; try weaker rules.
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

func (p *TimestampParser) parseMatch(rule timestampRule, s string) (time.Time, error) {
	switch rule.kind {
	case kindEpochSec:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(n, 0), nil

	case kindEpochMilli:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(n), nil
	}

	// Normalize ISO 'T' separators and comma fractions into the layout form.
	s = strings.Replace(s, "T", " ", 1)
	s = strings.Replace(s, ",", ".", 1)

	t, err := time.ParseInLocation(rule.layout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}

	now := p.Now()
	switch rule.kind {
	case kindNoYear:
		t = time.Date(now.Year(), t.Month(), t.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
	case kindTimeOnly:
		t = time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
	}
	return t, nil
}

// Locate returns the byte span of the timestamp substring Extract would
// parse out of the line, for styling. ok is false when Extract would fail.
func (p *TimestampParser) Locate(line string) (start, end int, ok bool) {
	for _, rule := range p.rules {
		loc := rule.regex.FindStringSubmatchIndex(line)
		if len(loc) < 4 {
			continue
		}
		if _, err := p.parseMatch(rule, line[loc[2]:loc[3]]); err != nil {
			continue
		}
		return loc[2], loc[3], true
	}
	return 0, 0, false
}

// FormatTime formats a timestamp for display
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatTimeWithDate formats a timestamp with date for display
func FormatTimeWithDate(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
