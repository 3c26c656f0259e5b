package engine

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadPattern wraps regex compile failures so callers can test for them
// with errors.Is.
var ErrBadPattern = errors.New("invalid search pattern")

// Match locates one search hit.
type Match struct {
	Source SourceID
	Line   int
}

// SearchSession holds a compiled pattern and its hits across all open
// sources, ordered by source index then line index, plus a cursor into
// that list (-1 when empty).
type SearchSession struct {
	Pattern *regexp.Regexp
	Matches []Match
	Cursor  int
}

// Search compiles a case-insensitive pattern, scans every open source and
// installs a fresh session. An invalid pattern returns an error and leaves
// the previous session untouched. Returns the match count.
func (e *Engine) Search(pattern string) (int, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}

	session := &SearchSession{Pattern: re, Cursor: -1}
	session.Matches = e.scanMatches(re)
	if len(session.Matches) > 0 {
		session.Cursor = 0
	}
	e.session = session
	return len(session.Matches), nil
}

// ClearSearch drops the active session.
func (e *Engine) ClearSearch() {
	e.session = nil
}

// Session returns the active search session, or nil.
func (e *Engine) Session() *SearchSession {
	return e.session
}

// CurrentMatch returns the match under the cursor.
func (e *Engine) CurrentMatch() (Match, bool) {
	s := e.session
	if s == nil || s.Cursor < 0 || s.Cursor >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[s.Cursor], true
}

// NextMatch advances the cursor, wrapping past the last match to the first.
// With no matches it reports false and changes nothing.
func (e *Engine) NextMatch() (Match, bool) {
	s := e.session
	if s == nil || len(s.Matches) == 0 {
		return Match{}, false
	}
	s.Cursor = (s.Cursor + 1) % len(s.Matches)
	return s.Matches[s.Cursor], true
}

// PrevMatch moves the cursor back, wrapping from the first match to the last.
func (e *Engine) PrevMatch() (Match, bool) {
	s := e.session
	if s == nil || len(s.Matches) == 0 {
		return Match{}, false
	}
	s.Cursor--
	if s.Cursor < 0 {
		s.Cursor = len(s.Matches) - 1
	}
	return s.Matches[s.Cursor], true
}

// scanMatches collects hits in source-index order then line order. A line
// matches when the pattern matches anywhere within it.
func (e *Engine) scanMatches(re *regexp.Regexp) []Match {
	var matches []Match
	for _, id := range e.order {
		src := e.sources[id]
		for i := 0; i < src.LineCount(); i++ {
			line, ok := src.GetLine(i)
			if ok && re.MatchString(line.Text) {
				matches = append(matches, Match{Source: id, Line: i})
			}
		}
	}
	return matches
}

// rescanSession refreshes the match list after buffers changed, keeping the
// cursor clamped to the new list.
func (e *Engine) rescanSession() {
	s := e.session
	if s == nil {
		return
	}
	s.Matches = e.scanMatches(s.Pattern)
	if len(s.Matches) == 0 {
		s.Cursor = -1
	} else if s.Cursor < 0 || s.Cursor >= len(s.Matches) {
		s.Cursor = 0
	}
}
