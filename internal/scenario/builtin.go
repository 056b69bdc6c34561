package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// BuiltinPrefix selects an embedded scenario, e.g. "builtin:waitlist".
const BuiltinPrefix = "builtin:"

//go:embed builtin/*.yaml
var builtinScenarios embed.FS

// Builtin returns the embedded scenario with the given name.
func Builtin(name string) (*Scenario, error) {
	data, err := fs.ReadFile(builtinScenarios, path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown builtin scenario %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin %s: %w", name, err)
	}
	return sc, nil
}

// BuiltinNames lists the embedded scenarios.
func BuiltinNames() []string {
	entries, _ := fs.ReadDir(builtinScenarios, "builtin")
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Resolve loads a builtin when ref carries BuiltinPrefix, otherwise the file at ref.
func Resolve(ref string) (*Scenario, error) {
	if name, ok := strings.CutPrefix(ref, BuiltinPrefix); ok {
		return Builtin(name)
	}
	return Load(ref)
}
