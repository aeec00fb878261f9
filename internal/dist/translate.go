package dist

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// Translator converts a mixed Go/C syntax source file into a plain C
// source file, standing in for the historical source-to-source translator
// (goc2c). It is an external collaborator per spec.md's "Out of scope"
// list: the core only needs the capability contract.
type Translator func(srcPath, outPath string) error

// translateMixedSources runs translator over every ".goc" file in sel,
// producing "z<stem>_<arch>.c" beside it (spec.md §4.6's runtime
// side-copy step), adds the result to the file set, and re-dedups. With no
// ".goc" files in sel it does nothing and translator may be nil; with
// ".goc" files and a nil translator it returns an error.
func translateMixedSources(p *Platform, sel *selection, translator Translator) error {
	var mixed []string
	for _, f := range sel.Files {
		if filepath.Ext(f) == ".goc" {
			mixed = append(mixed, f)
		}
	}
	if len(mixed) == 0 {
		return nil
	}
	if translator == nil {
		return xerrors.Errorf("no translator configured for mixed-syntax sources: %v", mixed)
	}

	var added []string
	for _, f := range mixed {
		stem := strings.TrimSuffix(filepath.Base(f), ".goc")
		outPath := filepath.Join(filepath.Dir(f), fmt.Sprintf("z%s_%s.c", stem, p.TargetArch))
		if err := translator(f, outPath); err != nil {
			return xerrors.Errorf("translating %s: %w", f, err)
		}
		added = append(added, outPath)
	}
	sel.Files = uniq(append(sel.Files, added...))
	return nil
}
