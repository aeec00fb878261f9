package dist

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// Setup implements the tree layout half of spec.md §4.8: it ensures the
// fixed output directories exist, wipes the per-platform package directory
// and the object directory so no stale artifact survives, and removes
// obsolete tool binaries that might otherwise shadow freshly built ones.
func Setup(p *Platform) error {
	for _, d := range []string{
		filepath.Join(p.RootDir, "bin"),
		filepath.Join(p.RootDir, "bin", "tool"),
		filepath.Join(p.RootDir, "pkg"),
	} {
		if err := os.MkdirAll(d, 0o777); err != nil {
			return xerrors.Errorf("creating %s: %w", d, err)
		}
	}

	platformPkgDir := filepath.Join(p.RootDir, "pkg", p.TargetOS+"_"+p.TargetArch)
	if err := os.RemoveAll(platformPkgDir); err != nil {
		return xerrors.Errorf("removing %s: %w", platformPkgDir, err)
	}
	if err := os.MkdirAll(platformPkgDir, 0o777); err != nil {
		return xerrors.Errorf("creating %s: %w", platformPkgDir, err)
	}

	objDir := filepath.Join(p.RootDir, "pkg", "obj")
	if err := os.RemoveAll(objDir); err != nil {
		return xerrors.Errorf("removing %s: %w", objDir, err)
	}
	if err := os.MkdirAll(objDir, 0o777); err != nil {
		return xerrors.Errorf("creating %s: %w", objDir, err)
	}

	if err := removeObsoleteTools(filepath.Join(p.RootDir, "bin")); err != nil {
		return err
	}

	if p.BinDir != filepath.Join(p.RootDir, "bin") && binDirHasCompiler(p.BinDir) {
		if err := removeObsoleteTools(p.BinDir); err != nil {
			return err
		}
	}

	return nil
}

func removeObsoleteTools(dir string) error {
	for _, name := range obsoleteToolBinaries {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return xerrors.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

// binDirHasCompiler reports whether dir contains anything named like
// "<letter>g", the historical toolchain compiler naming convention.
func binDirHasCompiler(dir string) bool {
	names, err := readDirNames(dir)
	if err != nil {
		return false
	}
	for _, n := range names {
		if len(n) == 2 && n[1] == 'g' {
			return true
		}
	}
	return false
}

// Clean implements spec.md §4.8's clean: remove generated files and
// subtree binaries by table, then remove the shared output directories and
// the version cache.
func Clean(p *Platform) error {
	for _, pattern := range cleanList {
		dir := expandArchLetter(pattern, p)
		if err := cleanSubtree(p, dir); err != nil {
			return err
		}
	}

	for _, d := range []string{
		filepath.Join(p.RootDir, "pkg", "obj"),
		filepath.Join(p.RootDir, "pkg", p.TargetOS+"_"+p.TargetArch),
		filepath.Join(p.RootDir, "bin", "tool"),
	} {
		if err := os.RemoveAll(d); err != nil {
			return xerrors.Errorf("removing %s: %w", d, err)
		}
	}

	cachePath := filepath.Join(p.RootDir, "VERSION.cache")
	if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("removing %s: %w", cachePath, err)
	}
	return nil
}

func cleanSubtree(p *Platform, dir string) error {
	srcDir := filepath.Join(p.RootDir, "src", dir)
	names, err := readDirNames(srcDir)
	if err != nil {
		return err
	}

	genTab := p.GenTab()
	for _, name := range names {
		for _, rule := range genTab {
			if strings.HasPrefix(name, rule.NamePrefix) {
				path := filepath.Join(srcDir, name)
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return xerrors.Errorf("removing generated file %s: %w", path, err)
				}
				break
			}
		}
	}

	if strings.HasPrefix(dir, "cmd/") {
		binPath := filepath.Join(p.RootDir, "bin", "tool", filepath.Base(dir)+p.Exe())
		if err := os.Remove(binPath); err != nil && !os.IsNotExist(err) {
			return xerrors.Errorf("removing %s: %w", binPath, err)
		}
	}
	return nil
}
