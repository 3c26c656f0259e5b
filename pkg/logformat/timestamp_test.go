package logformat

import (
	"testing"
	"time"
)

func fixedParser() *TimestampParser {
	p := NewTimestampParser()
	p.Now = func() time.Time {
		return time.Date(2026, time.August, 26, 12, 0, 0, 0, time.Local)
	}
	return p
}

func TestExtractFormats(t *testing.T) {
	p := fixedParser()

	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{
			name: "iso with millis",
			line: "2024-01-15T10:30:45.123 INFO starting up",
			want: time.Date(2024, time.January, 15, 10, 30, 45, 123000000, time.Local),
		},
		{
			name: "iso comma fraction",
			line: "2024-01-15 10:30:45,500 worker ready",
			want: time.Date(2024, time.January, 15, 10, 30, 45, 500000000, time.Local),
		},
		{
			name: "iso without fraction",
			line: "2024-01-15 10:30:45 connected",
			want: time.Date(2024, time.January, 15, 10, 30, 45, 0, time.Local),
		},
		{
			name: "logcat month-day",
			line: "01-15 10:30:45.123 D/Foo: message",
			want: time.Date(2026, time.January, 15, 10, 30, 45, 123000000, time.Local),
		},
		{
			name: "syslog",
			line: "Jan 15 10:30:45 host sshd[123]: accepted",
			want: time.Date(2026, time.January, 15, 10, 30, 45, 0, time.Local),
		},
		{
			name: "syslog padded day",
			line: "Feb  3 04:05:06 host cron[9]: run",
			want: time.Date(2026, time.February, 3, 4, 5, 6, 0, time.Local),
		},
		{
			name: "apache access",
			line: `127.0.0.1 - - [15/Jan/2024:10:30:45 +0000] "GET /"`,
			want: time.Date(2024, time.January, 15, 10, 30, 45, 0, time.Local),
		},
		{
			name: "bare time with fraction",
			line: "10:30:45.250 tick",
			want: time.Date(2026, time.August, 26, 10, 30, 45, 250000000, time.Local),
		},
		{
			name: "bare time",
			line: "10:30:45 tick",
			want: time.Date(2026, time.August, 26, 10, 30, 45, 0, time.Local),
		},
		{
			name: "epoch millis",
			line: "ts=1705315845123 event=login",
			want: time.UnixMilli(1705315845123),
		},
		{
			name: "epoch seconds",
			line: "ts=1705315845 event=login",
			want: time.Unix(1705315845, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Extract(tt.line)
			if !ok {
				t.Fatalf("Extract(%q) found nothing", tt.line)
			}
			diff := got.Sub(tt.want)
			if diff < -time.Second || diff > time.Second {
				t.Errorf("Extract(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractNoTimestamp(t *testing.T) {
	p := fixedParser()

	lines := []string{
		"",
		"plain message with no numbers",
		"pid 1234 restarted 42 times",
		"version 1.2.3 ready",
	}
	for _, line := range lines {
		if got, ok := p.Extract(line); ok {
			t.Errorf("Extract(%q) = %v, want none", line, got)
		}
	}
}

func TestExtractInvalidDateFallsThrough(t *testing.T) {
	p := fixedParser()

	// The full-datetime rule matches first but the date cannot parse; the
	// bare time-of-day rule should still pick up the clock portion.
	got, ok := p.Extract("2024-13-45 10:30:45 impossible date")
	if !ok {
		t.Fatal("expected fallback to the time-of-day rule")
	}
	want := time.Date(2026, time.August, 26, 10, 30, 45, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractFirstRuleWins(t *testing.T) {
	p := fixedParser()

	// Both a full datetime and a bare time appear; the higher priority rule
	// must decide.
	got, ok := p.Extract("2024-01-15 10:30:45 retry at 11:00:00")
	if !ok {
		t.Fatal("expected a timestamp")
	}
	want := time.Date(2024, time.January, 15, 10, 30, 45, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLocate(t *testing.T) {
	p := fixedParser()

	line := "prefix 2024-01-15 10:30:45 suffix"
	start, end, ok := p.Locate(line)
	if !ok {
		t.Fatal("expected a located timestamp")
	}
	if got := line[start:end]; got != "2024-01-15 10:30:45" {
		t.Errorf("located %q", got)
	}

	if _, _, ok := p.Locate("no timestamp here"); ok {
		t.Error("expected no span without a timestamp")
	}
}

func TestExtractDeterministic(t *testing.T) {
	p := fixedParser()

	line := "Jan 15 10:30:45 host app: msg"
	a, okA := p.Extract(line)
	b, okB := p.Extract(line)
	if !okA || !okB || !a.Equal(b) {
		t.Errorf("Extract not deterministic: %v/%v %v/%v", a, okA, b, okB)
	}
}
