// Package rollover reconstructs the ordered set of physical files that make
// up one logical, rotated log stream.
package rollover

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// rotatedBase matches paths like app.log.3 whose prefix already carries a
// recognized log extension. Only then is the numeric suffix stripped; a path
// like archive.2 is taken as-is.
var rotatedBase = regexp.MustCompile(`(?i)^(.*\.(?:log|out|txt|err))\.\d+$`)

// Base normalizes a path to the live file of its rollover chain.
func Base(path string) string {
	if m := rotatedBase.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return path
}

// Resolve returns every on-disk file belonging to the chain rooted at path,
// ordered oldest rotated fragment first and the live file last. Only files
// that currently exist are included; a missing live file yields a chain
// without it. The result is deterministic for a fixed directory state.
func Resolve(path string) []string {
	base := Base(path)
	dir := filepath.Dir(base)
	baseName := filepath.Base(base)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type ranked struct {
		rank int
		path string
	}
	var files []ranked

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == baseName {
			files = append(files, ranked{0, filepath.Join(dir, name)})
			continue
		}
		suffix, ok := strings.CutPrefix(name, baseName+".")
		if !ok {
			continue
		}
		if !allDigits(suffix) {
			// .bak, .gz and friends are not part of the chain.
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 1 {
			continue
		}
		files = append(files, ranked{n, filepath.Join(dir, name)})
	}

	// Highest suffix is the oldest fragment; the live file (rank 0) goes last.
	sort.Slice(files, func(i, j int) bool { return files[i].rank > files[j].rank })

	chain := make([]string, len(files))
	for i, f := range files {
		chain[i] = f.path
	}
	return chain
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SameSet reports whether two chains contain the same files, ignoring order.
func SameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, p := range a {
		seen[p] = struct{}{}
	}
	for _, p := range b {
		if _, ok := seen[p]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether the chain includes the given path.
func Contains(chain []string, path string) bool {
	for _, p := range chain {
		if p == path {
			return true
		}
	}
	return false
}
