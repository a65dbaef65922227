// Package version reports the build identity of the uesave binary.
package version

import (
	_ "embed"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var versionFile string

// Set via:
//
//	go build -ldflags "-X github.com/leefowlercu/uesave-converter/internal/version.gitCommit=VALUE"
var (
	gitCommit string
	buildDate string
)

const unknown = "unknown"

// Info describes one build.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// String formats Info for the version command.
func (i Info) String() string {
	return fmt.Sprintf("Version:    %s\nGit Commit: %s\nBuild Date: %s\nGo:         %s\nPlatform:   %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// Short returns "<version> (<commit>)", used as the root command's --version output.
func (i Info) Short() string {
	return fmt.Sprintf("%s (%s)", i.Version, i.GitCommit)
}

// Get returns the current build's Info.
func Get() Info {
	return Info{
		Version:   strings.TrimSpace(versionFile),
		GitCommit: commit(),
		BuildDate: date(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// commit prefers the linker flag, then VCS build info.
func commit() string {
	if gitCommit != "" {
		return gitCommit
	}
	if revision, dirty := readBuildInfo(); revision != "" {
		if dirty {
			return revision + "-dirty"
		}
		return revision
	}
	return unknown
}

func date() string {
	if buildDate != "" {
		return buildDate
	}
	return unknown
}

// readBuildInfo returns the short VCS revision and whether the tree was modified.
func readBuildInfo() (revision string, dirty bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	return revision, dirty
}
