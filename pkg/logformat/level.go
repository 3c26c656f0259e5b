package logformat

import "strings"

// Level represents a log severity level
type Level int

const (
	LevelUnknown Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// LevelPatterns maps each level to the substrings that identify it.
type LevelPatterns struct {
	Trace []string
	Debug []string
	Info  []string
	Warn  []string
	Error []string
	Fatal []string
}

type levelRule struct {
	level    Level
	patterns []string
}

// LevelDetector classifies lines into severity levels. Rules are evaluated
// most severe first and the first match wins.
type LevelDetector struct {
	rules []levelRule
}

// NewLevelDetector creates a detector from the given patterns.
func NewLevelDetector(p LevelPatterns) *LevelDetector {
	return &LevelDetector{
		rules: []levelRule{
			{LevelFatal, p.Fatal},
			{LevelError, p.Error},
			{LevelWarn, p.Warn},
			{LevelInfo, p.Info},
			{LevelDebug, p.Debug},
			{LevelTrace, p.Trace},
		},
	}
}

// Detect returns the log level for a line, or LevelUnknown when no rule matches.
func (d *LevelDetector) Detect(line string) Level {
	for _, rule := range d.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(line, pattern) {
				return rule.level
			}
		}
	}
	return LevelUnknown
}
