package walker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Filter determines whether files and directories should be visited.
type Filter struct {
	pattern   string
	recursive bool
}

// NewFilter creates a Filter matching file names against a glob pattern.
// An empty pattern matches every file.
func NewFilter(pattern string, recursive bool) (*Filter, error) {
	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid file filter %q; %w", pattern, err)
		}
	}
	return &Filter{pattern: pattern, recursive: recursive}, nil
}

// Pattern returns the glob pattern.
func (f *Filter) Pattern() string {
	return f.pattern
}

// ShouldProcessFile returns true if the file name matches the pattern.
func (f *Filter) ShouldProcessFile(path string) bool {
	return matchPattern(f.pattern, filepath.Base(path))
}

// ShouldProcessDir returns true if subdirectories should be traversed.
func (f *Filter) ShouldProcessDir(string) bool {
	return f.recursive
}

// matchPattern matches a glob pattern against a name. Matching is
// case-insensitive so "*.sav" also finds "SLOT.SAV".
func matchPattern(pattern, name string) bool {
	if pattern == "" || pattern == name {
		return true
	}

	matched, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
	return err == nil && matched
}
