// pkg/prereq/prereq_test.go
package prereq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

func TestEnsure(t *testing.T) {
	present := func() bool { return true }
	missing := func() bool { return false }
	noInstallers := [][]string{{"no-such-installer-on-path"}}

	tests := []struct {
		name string
		deps []Dependency
		want bool
	}{
		{
			name: "all present",
			deps: []Dependency{
				{Name: "a", Required: true, Detect: present},
				{Name: "b", Detect: present},
			},
			want: true,
		},
		{
			name: "optional missing is tolerated",
			deps: []Dependency{
				{Name: "a", Detect: missing, Installers: noInstallers},
			},
			want: true,
		},
		{
			name: "required missing aborts",
			deps: []Dependency{
				{Name: "a", Required: true, Detect: missing, Installers: noInstallers},
			},
			want: false,
		},
		{
			name: "required missing with no installers aborts",
			deps: []Dependency{
				{Name: "a", Required: true, Detect: missing},
			},
			want: false,
		},
		{
			name: "empty set",
			deps: nil,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(tt.deps, nil)
			assert.Equal(t, tt.want, c.Ensure(context.Background()))
		})
	}
}

func TestEnsureChecksInPriorityOrder(t *testing.T) {
	var order []string
	record := func(name string) func() bool {
		return func() bool {
			order = append(order, name)
			return true
		}
	}

	c := NewChecker([]Dependency{
		{Name: "second", Priority: 2, Detect: record("second")},
		{Name: "first", Priority: 1, Detect: record("first")},
	}, nil)

	assert.True(t, c.Ensure(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestForFamily(t *testing.T) {
	t.Run("linux", func(t *testing.T) {
		deps := ForFamily(platform.OSLinux)
		assert.NotEmpty(t, deps)
		for _, d := range deps {
			assert.False(t, d.Required, "linux prerequisites are all best effort")
		}
	})

	t.Run("windows requires the vc runtime", func(t *testing.T) {
		deps := ForFamily(platform.OSWindows)
		var found bool
		for _, d := range deps {
			if d.Name == "vc-redistributable" {
				found = true
				assert.True(t, d.Required)
			}
		}
		assert.True(t, found)
	})

	t.Run("unknown family has none", func(t *testing.T) {
		assert.Empty(t, ForFamily(platform.OSUnknown))
	})
}
