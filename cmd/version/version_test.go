package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leefowlercu/uesave-converter/internal/version"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	versionJSON = false

	buf := new(bytes.Buffer)
	VersionCmd.SetOut(buf)
	VersionCmd.SetArgs(append([]string{}, args...))
	if err := VersionCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	return buf.String()
}

func TestVersionCommandOutput(t *testing.T) {
	output := execute(t)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 5 {
		t.Errorf("version output has %d lines, expected 5:\n%s", len(lines), output)
	}
	for _, label := range []string{"Version:", "Git Commit:", "Build Date:", "Go:", "Platform:"} {
		if !strings.Contains(output, label) {
			t.Errorf("version output missing label %q", label)
		}
	}
}

func TestVersionCommandJSON(t *testing.T) {
	output := execute(t, "--json")

	var info version.Info
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("version --json output is not JSON: %v\n%s", err, output)
	}
	if info != version.Get() {
		t.Errorf("version --json = %+v, want %+v", info, version.Get())
	}
}
