package toggle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scopeFlags = []string{"all", "selection", "visible"}

func newScope(t *testing.T, def int) *Group {
	t.Helper()
	g, err := New("scope", scopeFlags, def)
	require.NoError(t, err)
	return g
}

// requireInvariants checks that exactly one flag is on and that the cached
// mask is the bit of that flag.
func requireInvariants(t *testing.T, g *Group) {
	t.Helper()
	on := 0
	for _, f := range g.Flags() {
		if f {
			on++
		}
	}
	require.Equal(t, 1, on, "flags %v", g.Flags())
	require.True(t, g.Mask().Singleton(), "mask %s", g.Mask().Format(g.Len()))
	require.Equal(t, Bit(int(g.Active()), g.Len()), g.Mask())
}

func TestNewSeedsDefault(t *testing.T) {
	for def := range scopeFlags {
		g := newScope(t, def)
		assert.Equal(t, Active(def), g.Active())
		assert.Equal(t, scopeFlags[def], g.ActiveName())
		requireInvariants(t, g)
	}
	assert.Equal(t, Mask(0b100), newScope(t, 0).Mask())
	assert.Equal(t, Mask(0b001), newScope(t, 2).Mask())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("scope", scopeFlags, 3)
	assert.ErrorIs(t, err, ErrDefaultIndex)

	_, err = New("scope", scopeFlags, -1)
	assert.ErrorIs(t, err, ErrDefaultIndex)

	_, err = New("empty", nil, 0)
	assert.ErrorIs(t, err, ErrWidth)

	_, err = New("dup", []string{"a", "b", "a"}, 0)
	assert.ErrorIs(t, err, ErrDuplicateFlag)

	assert.Panics(t, func() { MustNew("scope", scopeFlags, 7) })
}

func TestScenarios(t *testing.T) {
	t.Run("click inactive flag switches", func(t *testing.T) {
		g := newScope(t, 0)
		vec := []bool{false, true, false}
		assert.Equal(t, Mask(0b110), Pack(vec)^g.Mask())

		out, err := g.OnToggle(vec)
		require.NoError(t, err)
		assert.Equal(t, Switched, out)
		assert.Equal(t, Active(1), g.Active())
		assert.Equal(t, Mask(0b010), g.Mask())
	})

	t.Run("click active flag is held", func(t *testing.T) {
		g := newScope(t, 0)
		_, err := g.OnToggle([]bool{false, true, false})
		require.NoError(t, err)

		vec := []bool{false, false, false}
		assert.Equal(t, Mask(0b010), Pack(vec)^g.Mask())

		out, err := g.OnToggle(vec)
		require.NoError(t, err)
		assert.Equal(t, Held, out)
		assert.Equal(t, []bool{false, true, false}, g.Flags())
		assert.Equal(t, Mask(0b010), g.Mask())
	})

	t.Run("click last flag from first", func(t *testing.T) {
		g := newScope(t, 0)
		vec := []bool{false, false, true}
		assert.Equal(t, Mask(0b101), Pack(vec)^g.Mask())

		out, err := g.OnToggle(vec)
		require.NoError(t, err)
		assert.Equal(t, Switched, out)
		assert.Equal(t, Active(2), g.Active())
		assert.Equal(t, Mask(0b001), g.Mask())
	})
}

func TestNoOpLaw(t *testing.T) {
	for def := range scopeFlags {
		g := newScope(t, def)
		before := g.Flags()

		out, err := g.Toggle(def)
		require.NoError(t, err)
		assert.Equal(t, Held, out)
		assert.Equal(t, before, g.Flags())
		assert.Equal(t, Active(def), g.Active())
	}
}

func TestSwitchLaw(t *testing.T) {
	for from := range scopeFlags {
		for to := range scopeFlags {
			if from == to {
				continue
			}
			g := newScope(t, from)
			out, err := g.Toggle(to)
			require.NoError(t, err)
			assert.Equal(t, Switched, out)

			want := make([]bool, len(scopeFlags))
			want[to] = true
			assert.Equal(t, want, g.Flags(), "from %d to %d", from, to)
		}
	}
}

func TestToggleIdempotent(t *testing.T) {
	g := newScope(t, 0)
	_, err := g.ToggleName("visible")
	require.NoError(t, err)
	once := g.Flags()

	// Same click again targets the now-active flag.
	out, err := g.ToggleName("visible")
	require.NoError(t, err)
	assert.Equal(t, Held, out)
	assert.Equal(t, once, g.Flags())
}

// TestInvariantsOverAllSequences walks every click sequence up to depth 6
// from every seed.
func TestInvariantsOverAllSequences(t *testing.T) {
	var walk func(g *Group, depth int)
	walk = func(g *Group, depth int) {
		if depth == 0 {
			return
		}
		for k := 0; k < g.Len(); k++ {
			next := MustNew(g.Name(), g.Names(), int(g.Active()))
			prev := next.Active()
			_, err := next.Toggle(k)
			require.NoError(t, err)
			requireInvariants(t, next)
			assert.Equal(t, Active(k), next.Active(), "click %d from %d", k, prev)
			walk(next, depth-1)
		}
	}
	for def := range scopeFlags {
		walk(newScope(t, def), 6)
	}
}

func TestOnToggleDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		seed    int
		vec     []bool
		want    Active
		outcome Outcome
	}{
		{"two turned on picks lowest", 0, []bool{false, true, true}, 1, Degenerate},
		{"all on keeps lowest changed", 0, []bool{true, true, true}, 1, Degenerate},
		{"active off and two others on", 1, []bool{true, false, true}, 0, Degenerate},
		{"exclusive vector from middle", 1, []bool{false, false, true}, 2, Switched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newScope(t, tt.seed)
			out, err := g.OnToggle(tt.vec)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, out)
			assert.Equal(t, tt.want, g.Active())
			requireInvariants(t, g)
		})
	}
}

// Hosts differ in what they hand back after a click: some flip only the
// clicked flag, others clear the old flag too. Both are ordinary switches.
func TestOnToggleOutcomeForHostVectors(t *testing.T) {
	for from := range scopeFlags {
		for to := range scopeFlags {
			if from == to {
				continue
			}
			raw := newScope(t, from).Flags()
			raw[to] = true
			exclusive := make([]bool, len(scopeFlags))
			exclusive[to] = true

			for name, vec := range map[string][]bool{"raw": raw, "exclusive": exclusive} {
				g := newScope(t, from)
				out, err := g.OnToggle(vec)
				require.NoError(t, err)
				assert.Equal(t, Switched, out, "%s click %d from %d", name, to, from)
				assert.Equal(t, Active(to), g.Active())
			}
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		cached, vec Mask
		want        Outcome
	}{
		{0b100, 0b100, Unchanged},
		{0b100, 0b110, Switched},
		{0b100, 0b010, Switched},
		{0b100, 0b001, Switched},
		{0b010, 0b000, Held},
		{0b100, 0b011, Degenerate},
		{0b100, 0b111, Degenerate},
		{0b010, 0b101, Degenerate},
		{0b010, 0b011, Switched},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.cached, tt.vec), "cached %s vec %s", tt.cached.Format(3), tt.vec.Format(3))
	}
}

func TestOnToggleUnchanged(t *testing.T) {
	g := newScope(t, 2)
	out, err := g.OnToggle([]bool{false, false, true})
	require.NoError(t, err)
	assert.Equal(t, Unchanged, out)
	assert.Equal(t, Active(2), g.Active())
}

func TestOnToggleWidthMismatch(t *testing.T) {
	g := newScope(t, 1)
	_, err := g.OnToggle([]bool{true, false})
	assert.ErrorIs(t, err, ErrWidth)
	assert.Equal(t, Active(1), g.Active(), "rejected vector must not change state")

	_, err = g.Toggle(5)
	assert.ErrorIs(t, err, ErrUnknownFlag)

	_, err = g.ToggleName("hidden")
	assert.ErrorIs(t, err, ErrUnknownFlag)
}

func TestReconcileTotal(t *testing.T) {
	for _, cached := range []Mask{0b100, 0b010, 0b001} {
		for v := Mask(0); v < 8; v++ {
			vec := v.Unpack(3)
			flags, mask := Reconcile(cached, vec)
			require.True(t, mask.Singleton(), "cached %s vec %v", cached.Format(3), vec)
			require.Equal(t, mask.Unpack(3), flags)

			// Anything newly on must win; otherwise the cached flag stays.
			if on := (v ^ cached) & v; on != 0 {
				assert.True(t, on.Has(mask), "cached %s vec %v got %s", cached.Format(3), vec, mask.Format(3))
			} else {
				assert.Equal(t, cached, mask)
			}
		}
	}
}

func TestReconcileWithoutPreviousFlag(t *testing.T) {
	flags, mask := Reconcile(0b110, []bool{false, false, false})
	assert.Equal(t, Mask(0b100), mask)
	assert.Equal(t, []bool{true, false, false}, flags)

	flags, mask = Reconcile(0, []bool{false, false, true})
	assert.Equal(t, Mask(0b001), mask)
	assert.Equal(t, []bool{false, false, true}, flags)

	flags, mask = Reconcile(0b010, nil)
	assert.Nil(t, flags)
	assert.Zero(t, mask)
}

func TestValues(t *testing.T) {
	g := newScope(t, 1)
	assert.Equal(t, map[string]bool{"all": false, "selection": true, "visible": false}, g.Values())

	i, err := g.Index("visible")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
}

func TestGroupsAreIndependent(t *testing.T) {
	a := newScope(t, 0)
	b := MustNew("strategy", []string{"optimize", "default", "preview"}, 1)

	_, err := a.Toggle(2)
	require.NoError(t, err)
	assert.Equal(t, Active(1), b.Active())
	assert.Equal(t, Active(2), a.Active())
}
