// Package flags holds feature flags read from the config file. Known flags
// start from their defaults; the config map overrides them.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/packscheduler/internal/log"
)

const (
	// FlagRehashPasswords upgrades legacy password digests to bcrypt after a successful login.
	FlagRehashPasswords = "rehash-passwords"

	// FlagAutosaveRecords writes the record files back after term:run finishes.
	FlagAutosaveRecords = "autosave-records"
)

var defaults = map[string]bool{
	FlagRehashPasswords: true,
	FlagAutosaveRecords: false,
}

// Registry is a read-only set of flag values.
type Registry struct {
	flags map[string]bool
}

// New builds a Registry from the defaults overridden by configured.
// Names that are not known flags are kept but logged.
func New(configured map[string]bool) *Registry {
	merged := maps.Clone(defaults)
	for name, v := range configured {
		if !Known(name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
		merged[name] = v
	}
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Known reports whether name is a flag this build understands.
func Known(name string) bool {
	_, ok := defaults[name]
	return ok
}

// Names lists the known flags in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(defaults))
}

// Enabled reports the flag's value. Unknown flags and a nil registry are false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of every flag value.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
