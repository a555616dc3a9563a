package operator

import "fmt"

// Import is the "Import MPK" operator.
type Import struct {
	Filepath      string
	UseLightmaps  bool
	UseBlendmaps  bool
	RemoveDoubles bool
}

// NewImport returns an import operator with its stock defaults.
func NewImport() *Import {
	return &Import{
		UseLightmaps:  true,
		UseBlendmaps:  true,
		RemoveDoubles: false,
	}
}

func (op *Import) Kind() Kind { return KindImport }

func (op *Import) Info() Info {
	return Info{
		IDName:      "import_scene.pkmpk",
		Label:       "Import MPK",
		Description: "Import from MPK file format (.mpk)",
		Options:     []string{"PRESET", "UNDO"},
		FilenameExt: FilenameExt,
		FilterGlob:  FilterGlob,
	}
}

func (op *Import) Path() string        { return op.Filepath }
func (op *Import) SetPath(path string) { op.Filepath = path }

func (op *Import) Rows() []Row {
	return []Row{
		{Key: "use_lightmaps", Label: "Enable lightmaps", Description: "Adds lightmaps to materials", Bool: &op.UseLightmaps},
		{Key: "use_blendmaps", Label: "Enable blendmaps", Description: "Adds blendmaps to materials", Bool: &op.UseBlendmaps},
		{Key: "remove_doubles", Label: "Merge vertices", Description: "Removes double vertices", Bool: &op.RemoveDoubles},
	}
}

// Keywords drops filter_glob, which only drives the file browser.
func (op *Import) Keywords() Keywords {
	kw := Keywords{
		"filepath":    op.Filepath,
		"filter_glob": FilterGlob,
	}
	for _, r := range op.Rows() {
		kw[r.Key] = r.Checked()
	}
	return kw.Without("filter_glob")
}

func (op *Import) Validate() error {
	if op.Filepath == "" {
		return ErrNoPath
	}
	if !HasExt(op.Filepath) {
		return fmt.Errorf("%w: %s", ErrExtension, op.Filepath)
	}
	if !fileExists(op.Filepath) {
		return fmt.Errorf("operator: %s: no such file", op.Filepath)
	}
	return nil
}
