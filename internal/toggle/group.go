// Package toggle keeps a fixed set of independently clickable boolean flags
// behaving like a radio group: exactly one flag is active at all times.
//
// Hosts apply a click optimistically to their own checkbox state, hand the
// full post-click vector to Group.OnToggle, and redraw from Group.Flags.
// Bit masks only appear at that boundary; internally a group is the index
// of its active flag.
//
// A Group is not safe for concurrent use. Hosts serialize UI events.
package toggle

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxFlags is the widest group a Mask can encode.
const MaxFlags = 64

var (
	// ErrWidth is returned when a group or vector has the wrong number of flags.
	ErrWidth = errors.New("toggle: vector width mismatch")
	// ErrDefaultIndex is returned when the seed index is outside the group.
	ErrDefaultIndex = errors.New("toggle: default index out of range")
	// ErrUnknownFlag is returned when a flag name or index is not in the group.
	ErrUnknownFlag = errors.New("toggle: unknown flag")
	// ErrDuplicateFlag is returned when two flags share a name.
	ErrDuplicateFlag = errors.New("toggle: duplicate flag name")
)

// Active is the index of the single true flag in a group.
type Active int

// Outcome classifies how OnToggle resolved an event.
type Outcome int

const (
	// Unchanged means the vector already matched the cached mask.
	Unchanged Outcome = iota
	// Switched means a different flag became active.
	Switched
	// Held means the active flag was turned off and forced back on.
	Held
	// Degenerate means more than one flag changed in a single event.
	Degenerate
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Switched:
		return "switched"
	case Held:
		return "held"
	case Degenerate:
		return "degenerate"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Group is an exclusive toggle group.
type Group struct {
	name   string
	names  []string
	active Active
}

// New creates a group over the named flags with names[defaultIndex] active.
func New(name string, names []string, defaultIndex int) (*Group, error) {
	if len(names) == 0 || len(names) > MaxFlags {
		return nil, fmt.Errorf("%w: group %q has %d flags", ErrWidth, name, len(names))
	}
	if defaultIndex < 0 || defaultIndex >= len(names) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrDefaultIndex, defaultIndex, len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFlag, n)
		}
		seen[n] = struct{}{}
	}

	return &Group{
		name:   name,
		names:  append([]string(nil), names...),
		active: Active(defaultIndex),
	}, nil
}

// MustNew is New for fixed flag sets declared at package level.
func MustNew(name string, names []string, defaultIndex int) *Group {
	g, err := New(name, names, defaultIndex)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the group identity reported to the host.
func (g *Group) Name() string { return g.name }

// Len returns the number of flags.
func (g *Group) Len() int { return len(g.names) }

// Names returns the flag names in group order.
func (g *Group) Names() []string { return append([]string(nil), g.names...) }

// Active returns the index of the active flag.
func (g *Group) Active() Active { return g.active }

// ActiveName returns the name of the active flag.
func (g *Group) ActiveName() string { return g.names[g.active] }

// Mask returns the cached combined mask. It always has exactly one bit set.
func (g *Group) Mask() Mask { return Bit(int(g.active), len(g.names)) }

// Flags returns the current flag vector.
func (g *Group) Flags() []bool { return g.Mask().Unpack(len(g.names)) }

// IsSet reports whether flag i is the active one.
func (g *Group) IsSet(i int) bool { return Active(i) == g.active }

// Index returns the position of the named flag.
func (g *Group) Index(flag string) (int, error) {
	for i, n := range g.names {
		if n == flag {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in group %q", ErrUnknownFlag, flag, g.name)
}

// Values returns the flag vector keyed by flag name.
func (g *Group) Values() map[string]bool {
	out := make(map[string]bool, len(g.names))
	for i, n := range g.names {
		out[n] = g.IsSet(i)
	}
	return out
}

// OnToggle reconciles a host-applied vector so exactly one flag stays active.
func (g *Group) OnToggle(vec []bool) (Outcome, error) {
	if len(vec) != len(g.names) {
		return Unchanged, fmt.Errorf("%w: group %q wants %d flags, got %d",
			ErrWidth, g.name, len(g.names), len(vec))
	}

	cached := g.Mask()
	_, mask := Reconcile(cached, vec)
	next, _ := mask.Index(len(vec))

	outcome := classify(cached, Pack(vec))
	g.active = Active(next)
	return outcome, nil
}

// classify names the kind of event that took the group from cached to vec.
// A host may hand in either the raw click (only the clicked flag flipped)
// or an already exclusive vector (the old flag cleared as well); both are
// a plain switch.
func classify(cached, vec Mask) Outcome {
	diff := vec ^ cached
	on, off := diff&vec, diff&^vec
	switch {
	case diff == 0:
		return Unchanged
	case bits.OnesCount64(uint64(on)) == 1 && (off == 0 || off == cached):
		return Switched
	case on == 0 && off == cached:
		return Held
	default:
		return Degenerate
	}
}

// Toggle is a single click on flag k: it flips k in the current vector and
// reconciles the result.
func (g *Group) Toggle(k int) (Outcome, error) {
	if k < 0 || k >= len(g.names) {
		return Unchanged, fmt.Errorf("%w: index %d in group %q", ErrUnknownFlag, k, g.name)
	}
	vec := g.Flags()
	vec[k] = !vec[k]
	return g.OnToggle(vec)
}

// ToggleName clicks the named flag.
func (g *Group) ToggleName(flag string) (Outcome, error) {
	k, err := g.Index(flag)
	if err != nil {
		return Unchanged, err
	}
	return g.Toggle(k)
}

// Reconcile corrects a post-click vector against the mask cached from the
// previous event. A flag turned on wins; when several were turned on at
// once the lowest position wins. Position is the flag index, so flag 0
// beats flag 2 even though flag 0 packs into the higher bit. Turning the active flag off re-asserts it.
// A cached mask that is not a single in-range bit has no previous flag, in
// which case position 0 is the fallback.
func Reconcile(cached Mask, vec []bool) ([]bool, Mask) {
	n := len(vec)
	if n == 0 {
		return nil, 0
	}
	diff := Pack(vec) ^ cached

	next, ok := cached.Index(n)
	for i := 0; i < n; i++ {
		if vec[i] && diff.Has(Bit(i, n)) {
			next, ok = i, true
			break
		}
	}
	if !ok {
		next = 0
	}

	mask := Bit(next, n)
	return mask.Unpack(n), mask
}
