// Package flags provides feature flag support. Flags are read-only after
// initialization; unknown flags are off.
package flags

import (
	"maps"
	"sort"

	"github.com/zjrosen/hilite/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagPrehighlight classifies every source file handed to the viewer in
	// the background instead of on first display.
	FlagPrehighlight = "prehighlight"

	// FlagWatchSources reclassifies displayed source files when they change
	// on disk. It only takes effect when source.watch is also on.
	FlagWatchSources = "watch-sources"
)

// defaults apply to known flags missing from the config.
var defaults = map[string]bool{
	FlagPrehighlight: false,
	FlagWatchSources: true,
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map layered over the defaults.
func New(flags map[string]bool) *Registry {
	merged := maps.Clone(defaults)
	maps.Copy(merged, flags)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.Names())
	return r
}

// Enabled returns true if the named flag is enabled. Unknown flags and a
// nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Names lists the enabled flags in sorted order.
func (r *Registry) Names() []string {
	var names []string
	for name, on := range r.All() {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
