package dist

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// Generator materializes one generated source file from the files already
// present in srcDir, writing the result to outPath.
type Generator func(srcDir, outPath string) error

// GenRule binds a filename prefix to the generator responsible for
// producing matching files.
type GenRule struct {
	NamePrefix string
	Generate   Generator
}

// GenTab returns the file-generator bindings for p. Two generators are
// implemented directly (version-stamp and platform-constants), standing in
// for the historical mkzversion/mkzgoos/mkzgoarch/mkzruntimedefs family;
// the rest of that family (gcopnames, mkenam, mkzasm) are external
// collaborators per spec.md's "Out of scope" list, so callers that need
// them pass additional bindings in extra.
func (p *Platform) GenTab(extra ...GenRule) []GenRule {
	base := []GenRule{
		{NamePrefix: "zversion", Generate: p.genVersionStamp},
		{NamePrefix: "zgoos", Generate: p.genPlatformConstants},
		{NamePrefix: "zgoarch", Generate: p.genPlatformConstants},
	}
	return append(base, extra...)
}

// runGenerators is the generator dispatcher from spec.md §4.5: for every
// selected file whose basename starts with a GenRule's NamePrefix, it
// invokes the bound generator. After the pass, any file still missing and
// not produced by a generator is a fatal "missing file" error.
func runGenerators(sel *selection, genTab []GenRule) error {
	for _, f := range sel.Files {
		base := filepath.Base(f)
		for _, rule := range genTab {
			if strings.HasPrefix(base, rule.NamePrefix) {
				if err := rule.Generate(filepath.Dir(f), f); err != nil {
					return xerrors.Errorf("generating %s: %w", f, err)
				}
				break
			}
		}
	}

	for _, f := range sel.Files {
		if !isFile(f) {
			return xerrors.Errorf("missing file %s", f)
		}
	}
	return nil
}

// genVersionStamp produces the generated source file embedding the
// resolved version string, standing in for the historical mkzversion.
func (p *Platform) genVersionStamp(srcDir, outPath string) error {
	contents := fmt.Sprintf("package runtime\n\nconst buildVersion = %q\n", p.Version)
	return writeFile(outPath, contents, false)
}

// genPlatformConstants produces the generated source file embedding the
// resolved target OS or arch, standing in for the historical
// mkzgoos/mkzgoarch pair. Which constant it emits is keyed off outPath's
// basename, since the zgoos and zgoarch bindings share this one function.
func (p *Platform) genPlatformConstants(srcDir, outPath string) error {
	base := filepath.Base(outPath)
	switch {
	case strings.HasPrefix(base, "zgoos"):
		return writeFile(outPath, fmt.Sprintf("package runtime\n\nconst theGoos = %q\n", p.TargetOS), false)
	case strings.HasPrefix(base, "zgoarch"):
		return writeFile(outPath, fmt.Sprintf("package runtime\n\nconst theGoarch = %q\n", p.TargetArch), false)
	default:
		return xerrors.Errorf("genPlatformConstants: unrecognized file %s", outPath)
	}
}
