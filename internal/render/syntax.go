package render

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/TimelordUK/mview/internal/source"
)

// SyntaxRenderer applies syntax highlighting based on file type
type SyntaxRenderer struct {
	filename    string
	lexerName   string
	syntaxTheme string
}

// NewSyntaxRenderer creates a syntax highlighting renderer for the given filename
func NewSyntaxRenderer(filename string) *SyntaxRenderer {
	lexer := lexers.Match(filename)
	lexerName := "plaintext"
	if lexer != nil {
		lexerName = lexer.Config().Name
	}

	return &SyntaxRenderer{
		filename:    filename,
		lexerName:   lexerName,
		syntaxTheme: "monokai",
	}
}

// SetHighlight is a no-op; chroma output already carries its own styling
// and overlaying spans would corrupt the escape sequences.
func (r *SyntaxRenderer) SetHighlight(*regexp.Regexp) {}

// Render applies syntax highlighting to a line
func (r *SyntaxRenderer) Render(line source.Line) string {
	if line.Text == "" {
		return ""
	}

	var buf bytes.Buffer
	err := quick.Highlight(&buf, line.Text, r.lexerName, "terminal16m", r.syntaxTheme)
	if err != nil {
		return line.Text
	}

	// quick.Highlight appends newlines
	highlighted := buf.String()
	highlighted = strings.ReplaceAll(highlighted, "\n", "")
	highlighted = strings.ReplaceAll(highlighted, "\r", "")
	return highlighted
}

// IsSyntaxHighlightable returns true if the file type supports syntax highlighting
func IsSyntaxHighlightable(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))

	syntaxExts := map[string]bool{
		".go": true, ".rs": true, ".py": true, ".js": true, ".ts": true,
		".jsx": true, ".tsx": true, ".c": true, ".cpp": true, ".h": true,
		".hpp": true, ".java": true, ".rb": true, ".php": true, ".swift": true,
		".kt": true, ".scala": true, ".cs": true, ".lua": true,
		".sh": true, ".bash": true, ".zsh": true, ".fish": true,
		".yaml": true, ".yml": true, ".json": true, ".toml": true, ".xml": true,
		".html": true, ".css": true, ".sql": true, ".md": true, ".markdown": true,
	}

	if syntaxExts[ext] {
		return true
	}

	base := strings.ToLower(filepath.Base(filename))
	specialFiles := map[string]bool{
		"makefile": true, "dockerfile": true, "cmakelists.txt": true,
		"gemfile": true, "rakefile": true,
	}

	return specialFiles[base]
}
