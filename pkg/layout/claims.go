// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"fmt"
	"path"

	"github.com/viewpack/viewpack/pkg/buildconfig"
	"github.com/viewpack/viewpack/pkg/diag"
)

type (
	// claim is one file the build writes into the output tree.
	claim struct {
		rel  string
		view buildconfig.ViewName // set for view bundles
		src  string               // set for copies
		key  string               // copy key as written in the configuration
	}

	// outputTree records which paths hold files and which must be
	// directories. Keys are case-folded.
	outputTree struct {
		files map[string]claim
		dirs  map[string]claim
	}
)

func newOutputTree() *outputTree {
	return &outputTree{files: make(map[string]claim), dirs: make(map[string]claim)}
}

// collision returns the earlier claim that c cannot coexist with: one at the
// same path, one below c's path, or one at a directory c needs.
func (t *outputTree) collision(c claim) (claim, bool) {
	key := foldKey(c.rel)
	if prev, ok := t.files[key]; ok {
		return prev, true
	}
	if prev, ok := t.dirs[key]; ok {
		return prev, true
	}
	for dir := range parents(key) {
		if prev, ok := t.files[dir]; ok {
			return prev, true
		}
	}
	return claim{}, false
}

// add records c. The first claim under a directory is remembered as the
// reason it exists.
func (t *outputTree) add(c claim) {
	key := foldKey(c.rel)
	t.files[key] = c
	for dir := range parents(key) {
		if _, ok := t.dirs[dir]; !ok {
			t.dirs[dir] = c
		}
	}
}

// parents yields every proper ancestor directory of a clean relative path.
func parents(rel string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if !yield(dir) {
				return
			}
		}
	}
}

func (c claim) isView() bool { return c.view != "" }

// field names the configuration entry behind the claim.
func (c claim) field() string {
	if c.isView() {
		return diag.Field(diag.Path("build", "views"), string(c.view))
	}
	return diag.Field(diag.Path("build", "copy"), c.key)
}

// describe names the claim in a message.
func (c claim) describe() string {
	if c.isView() {
		return fmt.Sprintf("the bundle of view %q", c.view)
	}
	return fmt.Sprintf("source %q", c.src)
}

// related is how the claim appears in Diagnostic.Related.
func (c claim) related() string {
	if c.isView() {
		return c.field()
	}
	return c.src
}

// conflict builds the diagnostic for c colliding with the earlier prev.
// Anything involving a view bundle is an output conflict; two copies are a
// destination conflict.
func conflict(c, prev claim) diag.Diagnostic {
	d := diag.Diagnostic{
		Code:     diag.OutputConflict,
		Field:    c.field(),
		Severity: diag.SeverityError,
		Related:  []string{prev.related(), c.related()},
	}
	sameFile := foldKey(c.rel) == foldKey(prev.rel)

	switch {
	case !c.isView() && !prev.isView():
		d.Code = diag.DestinationConflict
		if sameFile {
			d.Message = fmt.Sprintf("sources %q and %q both write %q", prev.src, c.src, c.rel)
			return d
		}
	case sameFile && c.isView() && prev.isView():
		d.Message = fmt.Sprintf("views %q and %q both compile to %q", prev.view, c.view, c.rel)
		return d
	case sameFile:
		view, copied := prev, c
		if c.isView() {
			view, copied = c, prev
		}
		d.Related = []string{copied.src, view.field()}
		d.Message = fmt.Sprintf("destination %q overwrites the bundle of view %q", copied.rel, view.view)
		return d
	}

	d.Message = fmt.Sprintf("%q from %s and %q from %s need the same path as both a file and a directory",
		c.rel, c.describe(), prev.rel, prev.describe())
	return d
}
