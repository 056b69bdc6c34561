// Package paths resolves where packsched keeps its data.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-project data directory.
const DirName = ".packsched"

// redirectFile, when present in a data directory, names another data directory
// (relative to it) that holds the real records. Several checkouts can share one term.
const redirectFile = "redirect"

// ResolveDataDir normalizes user input to a data directory:
//   - "" -> "./.packsched"
//   - "/path/to/project" -> "/path/to/project/.packsched"
//   - "/path/to/project/.packsched" -> unchanged
//   - a directory already holding config.yaml is used as is
//
// A redirect file inside the result is followed once.
func ResolveDataDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if filepath.Base(path) == DirName {
		return followRedirect(path)
	}
	if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
		return followRedirect(path)
	}
	return followRedirect(filepath.Join(path, DirName))
}

// ConfigCandidates lists config files in lookup order: project first, then user.
func ConfigCandidates() []string {
	candidates := []string{filepath.Join(DirName, "config.yaml")}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "packsched", "config.yaml"))
	}
	return candidates
}

func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, redirectFile)) //nolint:gosec // redirect path is within the data dir
	if err != nil {
		return dir
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(dir, target))
}
