package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "default on",
			registry: New(nil),
			flag:     FlagRehashPasswords,
			expected: true,
		},
		{
			name:     "default off",
			registry: New(nil),
			flag:     FlagAutosaveRecords,
			expected: false,
		},
		{
			name:     "config overrides default",
			registry: New(map[string]bool{FlagRehashPasswords: false, FlagAutosaveRecords: true}),
			flag:     FlagAutosaveRecords,
			expected: true,
		},
		{
			name:     "unknown flag from config is kept",
			registry: New(map[string]bool{"experimental": true}),
			flag:     "experimental",
			expected: true,
		},
		{
			name:     "unknown flag not configured",
			registry: New(nil),
			flag:     "nope",
			expected: false,
		},
		{
			name:     "nil registry",
			registry: nil,
			flag:     FlagRehashPasswords,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_AllIsACopy(t *testing.T) {
	r := New(map[string]bool{FlagAutosaveRecords: true})

	all := r.All()
	require.Equal(t, map[string]bool{FlagRehashPasswords: true, FlagAutosaveRecords: true}, all)

	all[FlagAutosaveRecords] = false
	require.True(t, r.Enabled(FlagAutosaveRecords))

	var nilRegistry *Registry
	require.Empty(t, nilRegistry.All())
}

func TestNew_DoesNotMutateDefaults(t *testing.T) {
	_ = New(map[string]bool{FlagRehashPasswords: false})
	require.True(t, New(nil).Enabled(FlagRehashPasswords))
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{FlagAutosaveRecords, FlagRehashPasswords}, Names())
	require.True(t, Known(FlagAutosaveRecords))
	require.False(t, Known("experimental"))
}
