// ABOUTME: Capability detection producing an immutable feature flag set
// ABOUTME: Probes optional codecs once at construction and honours env overrides

package featureflags

import (
	"os"
	"sort"
	"strings"
)

// FeatureFlag represents a single capability
type FeatureFlag string

// Defined capabilities
const (
	// Brotli enables "br" in Accept-Encoding and the brotli response decoder
	Brotli FeatureFlag = "brotli"

	// Zstd enables "zstd" in Accept-Encoding and the zstd response decoder
	Zstd FeatureFlag = "zstd"
)

// Probe checks that a capability actually works, returning an error if not
type Probe func() error

// EnvManager reads capability overrides from environment variables
type EnvManager struct {
	prefix string
	lookup func(string) string
}

// NewEnvManager creates a new environment-based override reader
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		prefix: prefix,
		lookup: os.Getenv,
	}
}

func (m *EnvManager) value(flag FeatureFlag) string {
	return strings.ToLower(strings.TrimSpace(m.lookup(m.prefix + strings.ToUpper(string(flag)))))
}

// IsEnabled reports whether the env forces the flag on
func (m *EnvManager) IsEnabled(flag FeatureFlag) bool {
	v := m.value(flag)
	return v == "true" || v == "1" || v == "enabled"
}

// IsDisabled reports whether the env forces the flag off
func (m *EnvManager) IsDisabled(flag FeatureFlag) bool {
	v := m.value(flag)
	return v == "false" || v == "0" || v == "disabled"
}

// Set is an immutable set of detected capabilities
type Set struct {
	flags map[FeatureFlag]bool
}

// NewSet builds a set containing exactly the given flags
func NewSet(flags ...FeatureFlag) Set {
	s := Set{flags: make(map[FeatureFlag]bool, len(flags))}
	for _, f := range flags {
		s.flags[f] = true
	}
	return s
}

// Detect runs each probe once and keeps the capabilities whose probe succeeded.
// Flags disabled through env are skipped without probing. env may be nil.
func Detect(probes map[FeatureFlag]Probe, env *EnvManager) Set {
	s := Set{flags: make(map[FeatureFlag]bool, len(probes))}
	for flag, probe := range probes {
		if env != nil && env.IsDisabled(flag) {
			continue
		}
		if probe == nil || probe() == nil {
			s.flags[flag] = true
		}
	}
	return s
}

// Has reports whether the capability is available
func (s Set) Has(flag FeatureFlag) bool {
	return s.flags[flag]
}

// Flags returns the available capabilities in sorted order
func (s Set) Flags() []FeatureFlag {
	out := make([]FeatureFlag, 0, len(s.flags))
	for f := range s.flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
