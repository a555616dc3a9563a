package operator

import (
	"fmt"

	"github.com/abelbrown/mpkio/internal/toggle"
)

// Strategy flags choose how the converter builds the mesh.
var StrategyFlags = []string{"optimize", "default", "preview"}

// Scope flags choose which scene objects are exported.
var ScopeFlags = []string{"all", "selection", "visible"}

// Export is the "Export MPK" operator.
type Export struct {
	Filepath      string
	Strategy      *toggle.Group
	Scope         *toggle.Group
	Orientation   Orientation
	CheckExisting bool
}

// NewExport returns an export operator seeded with strategy "default" and
// scope "all". Each call gets fresh groups.
func NewExport() *Export {
	return &Export{
		Strategy:      toggle.MustNew("strategy", StrategyFlags, 1),
		Scope:         toggle.MustNew("scope", ScopeFlags, 0),
		Orientation:   DefaultOrientation,
		CheckExisting: true,
	}
}

func (op *Export) Kind() Kind { return KindExport }

func (op *Export) Info() Info {
	return Info{
		IDName:      "export_scene.pkmpk",
		Label:       "Export MPK",
		Description: "Export to MPK file format (.mpk)",
		Options:     []string{"PRESET", "UNDO"},
		FilenameExt: FilenameExt,
		FilterGlob:  FilterGlob,
	}
}

func (op *Export) Path() string { return op.Filepath }

// SetPath stores path with the .mpk extension appended if missing.
func (op *Export) SetPath(path string) { op.Filepath = EnsureExt(path) }

// Groups returns the exclusive groups in draw order.
func (op *Export) Groups() []*toggle.Group {
	return []*toggle.Group{op.Strategy, op.Scope}
}

func (op *Export) Rows() []Row {
	return []Row{
		{Key: "optimize", Label: "Optimize", Description: "Remove double vertices", Group: op.Strategy, Index: 0},
		{Key: "default", Label: "Default", Description: "Convert meshes as they are", Group: op.Strategy, Index: 1},
		{Key: "preview", Label: "Preview", Description: "Fast conversion for a quick look", Group: op.Strategy, Index: 2},
		{Key: "use_all", Label: "All", Description: "Export all objects", Group: op.Scope, Index: 0},
		{Key: "use_selection", Label: "Selection", Description: "Export selected objects only", Group: op.Scope, Index: 1},
		{Key: "use_visible", Label: "Visible", Description: "Export visible objects only", Group: op.Scope, Index: 2},
	}
}

// Keywords forwards every flag by name. The axis pair travels as
// global_axes; the raw axes, the file browser glob, the overwrite check
// and the scope mask stay with the dialog.
func (op *Export) Keywords() Keywords {
	kw := Keywords{
		"filepath":       op.Filepath,
		"filter_glob":    FilterGlob,
		"check_existing": op.CheckExisting,
		"axis_forward":   string(op.Orientation.Forward),
		"axis_up":        string(op.Orientation.Up),
		"opt":            uint64(op.Scope.Mask()),
	}
	for flag, on := range op.Strategy.Values() {
		kw[flag] = on
	}
	for flag, on := range op.Scope.Values() {
		kw["use_"+flag] = on
	}
	kw = kw.Without("axis_forward", "axis_up", "filter_glob", "check_existing", "opt")
	kw["global_axes"] = op.Orientation.String()
	return kw
}

// Select activates the named flag in whichever group holds it, as if the
// user had clicked it. Selecting the active flag is a no-op.
func (op *Export) Select(flag string) error {
	for _, g := range op.Groups() {
		if _, err := g.Index(flag); err != nil {
			continue
		}
		_, err := g.ToggleName(flag)
		return err
	}
	return fmt.Errorf("%w: %q", toggle.ErrUnknownFlag, flag)
}

func (op *Export) Validate() error {
	if op.Filepath == "" {
		return ErrNoPath
	}
	if !HasExt(op.Filepath) {
		return fmt.Errorf("%w: %s", ErrExtension, op.Filepath)
	}
	if err := op.Orientation.Validate(); err != nil {
		return err
	}
	if op.CheckExisting && fileExists(op.Filepath) {
		return fmt.Errorf("%w: %s", ErrExists, op.Filepath)
	}
	return nil
}
