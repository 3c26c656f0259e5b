package logformat

import "testing"

func testPatterns() LevelPatterns {
	return LevelPatterns{
		Trace: []string{"TRACE", "TRC"},
		Debug: []string{"DEBUG", "DBG"},
		Info:  []string{"INFO"},
		Warn:  []string{"WARN", "WARNING"},
		Error: []string{"ERROR", "ERR"},
		Fatal: []string{"FATAL", "CRITICAL"},
	}
}

func TestDetect(t *testing.T) {
	d := NewLevelDetector(testPatterns())

	tests := []struct {
		line string
		want Level
	}{
		{"2024-01-15 10:30:45 INFO server started", LevelInfo},
		{"2024-01-15 10:30:45 WARN disk nearly full", LevelWarn},
		{"2024-01-15 10:30:45 ERROR connection refused", LevelError},
		{"FATAL out of memory", LevelFatal},
		{"DEBUG cache miss", LevelDebug},
		{"TRACE entering handler", LevelTrace},
		{"plain text line", LevelUnknown},
		{"", LevelUnknown},
	}

	for _, tt := range tests {
		if got := d.Detect(tt.line); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestDetectSeverityOrder(t *testing.T) {
	d := NewLevelDetector(testPatterns())

	// When several level tokens appear, the most severe rule wins because
	// rules are evaluated in priority order.
	if got := d.Detect("INFO request failed with ERROR"); got != LevelError {
		t.Errorf("Detect = %v, want %v", got, LevelError)
	}
	if got := d.Detect("WARN escalated to FATAL"); got != LevelFatal {
		t.Errorf("Detect = %v, want %v", got, LevelFatal)
	}
}
