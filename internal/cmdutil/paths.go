// Package cmdutil holds helpers shared by command implementations.
package cmdutil

import (
	"path/filepath"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

// ResolvePath expands "~" and returns an absolute, cleaned path.
// Empty input returns an empty string.
func ResolvePath(path string) (string, error) {
	expanded := config.ExpandPath(path)
	if expanded == "" {
		return "", nil
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(absPath), nil
}

// ResolvePaths applies ResolvePath to each non-empty argument.
func ResolvePaths(paths ...string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		resolved, err := ResolvePath(p)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}
