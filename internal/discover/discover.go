// Package discover scans directories for log-like files.
package discover

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxResults caps a scan so a stray "/" argument stays cheap.
const DefaultMaxResults = 500

var rotatedSuffix = regexp.MustCompile(`\.\d+$`)

var logExtensions = map[string]bool{
	".log": true,
	".txt": true,
	".out": true,
	".err": true,
}

// FindLogFiles walks dir and returns paths that look like log files, sorted
// per directory, capped at max results. Rotated fragments (name.N) are
// skipped so only chain bases appear; hidden directories are not descended
// into. Permission errors are tolerated.
func FindLogFiles(dir string, max int) []string {
	if max <= 0 {
		max = DefaultMaxResults
	}

	var results []string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		// Rolled-over duplicates collapse into their base file's chain.
		if rotatedSuffix.MatchString(name) {
			return nil
		}
		if !looksLikeLog(name) {
			return nil
		}

		results = append(results, path)
		if len(results) >= max {
			return fs.SkipAll
		}
		return nil
	})

	sort.Strings(results)
	return results
}

func looksLikeLog(name string) bool {
	if logExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	return strings.Contains(strings.ToLower(name), "log")
}
