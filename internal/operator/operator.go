// Package operator defines the MPK import and export operators: their
// options, dialog layout, and the keyword set handed to the converter.
package operator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abelbrown/mpkio/internal/toggle"
)

// FilenameExt is the MPK file extension.
const FilenameExt = ".mpk"

// FilterGlob matches MPK files in a file browser.
const FilterGlob = "*.mpk"

var (
	// ErrExtension is returned for a path that is not an .mpk file.
	ErrExtension = errors.New("operator: not an .mpk file")
	// ErrNoPath is returned when no file was chosen.
	ErrNoPath = errors.New("operator: no file path")
	// ErrExists is returned when an export would overwrite a file and
	// CheckExisting is set.
	ErrExists = errors.New("operator: file exists")
)

// Kind distinguishes import from export.
type Kind string

const (
	KindImport Kind = "import"
	KindExport Kind = "export"
)

// Status is the result reported back to the host after Execute.
type Status string

const (
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

// Info is the static description a host registers an operator under.
type Info struct {
	IDName      string
	Label       string
	Description string
	Options     []string // PRESET, UNDO
	FilenameExt string
	FilterGlob  string
}

// Row is one checkbox in an operator dialog. Plain rows point at a bool
// field; group rows name a flag inside an exclusive toggle group.
type Row struct {
	Key         string
	Label       string
	Description string

	Bool  *bool
	Group *toggle.Group
	Index int
}

// Checked reports the row's current state.
func (r Row) Checked() bool {
	if r.Group != nil {
		return r.Group.IsSet(r.Index)
	}
	return r.Bool != nil && *r.Bool
}

// Keywords are the named arguments passed to the converter.
type Keywords map[string]any

// Keys returns the keyword names in sorted order.
func (kw Keywords) Keys() []string {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Without returns a copy of kw minus the ignored names.
func (kw Keywords) Without(ignore ...string) Keywords {
	out := make(Keywords, len(kw))
	for k, v := range kw {
		out[k] = v
	}
	for _, k := range ignore {
		delete(out, k)
	}
	return out
}

// Loader is the external MPK conversion routine.
type Loader interface {
	Load(ctx context.Context, kind Kind, kw Keywords) error
}

// Operator is what a dialog host drives.
type Operator interface {
	Kind() Kind
	Info() Info
	Path() string
	SetPath(path string)
	Rows() []Row
	Keywords() Keywords
	Validate() error
}

// Execute validates op and hands its keywords to the loader.
func Execute(ctx context.Context, op Operator, loader Loader) (Status, error) {
	if err := op.Validate(); err != nil {
		return StatusCancelled, err
	}
	if err := loader.Load(ctx, op.Kind(), op.Keywords()); err != nil {
		return StatusCancelled, fmt.Errorf("%s %s: %w", op.Kind(), op.Path(), err)
	}
	return StatusFinished, nil
}

// HasExt reports whether path ends in .mpk, ignoring case.
func HasExt(path string) bool {
	return strings.EqualFold(filepath.Ext(path), FilenameExt)
}

// EnsureExt appends .mpk when path lacks it.
func EnsureExt(path string) string {
	if path == "" || HasExt(path) {
		return path
	}
	return path + FilenameExt
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
