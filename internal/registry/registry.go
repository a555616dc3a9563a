// Package registry holds the add-on's operators and the File menu entries
// that open them. Register and Unregister mirror a host plugin's enter and
// exit hooks.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/abelbrown/mpkio/internal/operator"
)

var (
	ErrAlreadyRegistered = errors.New("registry: already registered")
	ErrNotRegistered     = errors.New("registry: not registered")
)

// Menu names for the host's File > Import and File > Export submenus.
const (
	MenuImport = "TOPBAR_MT_file_import"
	MenuExport = "TOPBAR_MT_file_export"
)

// MenuLabel is the text shown for both menu entries.
const MenuLabel = "Painkiller WorldMesh (.mpk)"

// BundleInfo describes the add-on.
type BundleInfo struct {
	Name        string
	Author      string
	Version     [3]int
	HostVersion [3]int
	Location    string
	Description string
	DocURL      string
	Category    string
}

// Bundle is the metadata for this add-on.
var Bundle = BundleInfo{
	Name:        "Painkiller MPK format",
	Author:      "dilettante",
	Version:     [3]int{3, 0, 0},
	HostVersion: [3]int{4, 2, 2},
	Location:    "File > Import-Export",
	Description: "Painkiller WorldMesh Import",
	DocURL:      "https://github.com/max-ego/PK_tools/",
	Category:    "Import-Export",
}

// VersionString formats a three-part version.
func VersionString(v [3]int) string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// Factory builds a fresh operator for one dialog.
type Factory func() operator.Operator

// MenuEntry is one item in a host menu.
type MenuEntry struct {
	Label  string
	IDName string
}

// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	operators map[string]Factory
	menus     map[string][]MenuEntry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		operators: make(map[string]Factory),
		menus:     make(map[string][]MenuEntry),
	}
}

// RegisterOperator adds an operator under its idname.
func (r *Registry) RegisterOperator(f Factory) error {
	id := f().Info().IDName

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operators[id]; ok {
		return fmt.Errorf("%w: operator %s", ErrAlreadyRegistered, id)
	}
	r.operators[id] = f
	return nil
}

// UnregisterOperator removes the operator and any menu entries that open it.
func (r *Registry) UnregisterOperator(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operators[id]; !ok {
		return fmt.Errorf("%w: operator %s", ErrNotRegistered, id)
	}
	delete(r.operators, id)
	for menu, entries := range r.menus {
		kept := entries[:0]
		for _, e := range entries {
			if e.IDName != id {
				kept = append(kept, e)
			}
		}
		r.menus[menu] = kept
	}
	return nil
}

// AppendMenu adds an entry to the named menu. The operator must exist.
func (r *Registry) AppendMenu(menu string, entry MenuEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operators[entry.IDName]; !ok {
		return fmt.Errorf("%w: operator %s", ErrNotRegistered, entry.IDName)
	}
	for _, e := range r.menus[menu] {
		if e == entry {
			return fmt.Errorf("%w: %s in %s", ErrAlreadyRegistered, entry.IDName, menu)
		}
	}
	r.menus[menu] = append(r.menus[menu], entry)
	return nil
}

// Lookup builds a new operator by idname.
func (r *Registry) Lookup(id string) (operator.Operator, error) {
	r.mu.RLock()
	f, ok := r.operators[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: operator %s", ErrNotRegistered, id)
	}
	return f(), nil
}

// Menu returns a copy of the named menu's entries.
func (r *Registry) Menu(menu string) []MenuEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]MenuEntry(nil), r.menus[menu]...)
}

// Operators returns the registered idnames, sorted.
func (r *Registry) Operators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.operators))
	for id := range r.operators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func newImport() operator.Operator { return operator.NewImport() }
func newExport() operator.Operator { return operator.NewExport() }

// Register installs the import and export operators and their File menu
// entries.
func Register(r *Registry) error {
	steps := []func() error{
		func() error { return r.RegisterOperator(newImport) },
		func() error {
			return r.AppendMenu(MenuImport, MenuEntry{Label: MenuLabel, IDName: operator.NewImport().Info().IDName})
		},
		func() error { return r.RegisterOperator(newExport) },
		func() error {
			return r.AppendMenu(MenuExport, MenuEntry{Label: MenuLabel, IDName: operator.NewExport().Info().IDName})
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes everything Register installed.
func Unregister(r *Registry) error {
	if err := r.UnregisterOperator(operator.NewImport().Info().IDName); err != nil {
		return err
	}
	return r.UnregisterOperator(operator.NewExport().Info().IDName)
}
