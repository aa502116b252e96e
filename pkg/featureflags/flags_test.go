package featureflags

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_KeepsPassingProbes(t *testing.T) {
	calls := 0
	set := Detect(map[FeatureFlag]Probe{
		Brotli: func() error { calls++; return nil },
		Zstd:   func() error { calls++; return errors.New("codec unavailable") },
	}, nil)

	assert.True(t, set.Has(Brotli))
	assert.False(t, set.Has(Zstd))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []FeatureFlag{Brotli}, set.Flags())
}

func TestDetect_EnvDisablesWithoutProbing(t *testing.T) {
	os.Setenv("TEST_FEATURE_BROTLI", "false")
	defer os.Unsetenv("TEST_FEATURE_BROTLI")

	probed := false
	set := Detect(map[FeatureFlag]Probe{
		Brotli: func() error { probed = true; return nil },
	}, NewEnvManager("TEST_FEATURE_"))

	assert.False(t, set.Has(Brotli))
	assert.False(t, probed)
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		enabled  bool
		disabled bool
	}{
		{"true lowercase", "true", true, false},
		{"TRUE uppercase", "TRUE", true, false},
		{"1 numeric", "1", true, false},
		{"enabled", "enabled", true, false},
		{"false", "false", false, true},
		{"0", "0", false, true},
		{"DISABLED", "DISABLED", false, true},
		{"empty", "", false, false},
		{"other", "yes", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_ZSTD", tt.value)
			defer os.Unsetenv("TEST_ZSTD")

			manager := NewEnvManager("TEST_")

			assert.Equal(t, tt.enabled, manager.IsEnabled(Zstd))
			assert.Equal(t, tt.disabled, manager.IsDisabled(Zstd))
		})
	}
}

func TestNewSet(t *testing.T) {
	set := NewSet(Zstd, Brotli)
	assert.True(t, set.Has(Zstd))
	assert.Equal(t, []FeatureFlag{Brotli, Zstd}, set.Flags())

	var empty Set
	assert.False(t, empty.Has(Brotli))
	assert.Empty(t, empty.Flags())
}
