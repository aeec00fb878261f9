package dist

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// expandArchLetter substitutes the one allowed "%s" in a build-order
// pattern with the target arch letter, e.g. "cmd/%sl" -> "cmd/6l".
func expandArchLetter(pattern string, p *Platform) string {
	return strings.ReplaceAll(pattern, "%s", string(p.ArchLetter))
}

// Bootstrap is the orchestrator from spec.md §4.7: clean, setup, then walk
// the fixed build order, building each resolved subtree.
func Bootstrap(ctx context.Context, p *Platform, opts BuildOptions) error {
	if err := Clean(p); err != nil {
		return xerrors.Errorf("clean: %w", err)
	}
	if err := Setup(p); err != nil {
		return xerrors.Errorf("setup: %w", err)
	}
	for _, pattern := range buildOrder {
		dir := expandArchLetter(pattern, p)
		if err := BuildSubtree(ctx, p, dir, opts); err != nil {
			return xerrors.Errorf("building %s: %w", dir, err)
		}
	}
	return nil
}

// Install builds the named subtrees, or, with none given, infers a single
// subtree from the current working directory (spec.md §6 "install").
func Install(ctx context.Context, p *Platform, dirs []string, opts BuildOptions) error {
	if len(dirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return xerrors.Errorf("getting working directory: %w", err)
		}
		dir, err := subtreeFromCWD(p, cwd)
		if err != nil {
			return err
		}
		dirs = []string{dir}
	}
	for _, dir := range dirs {
		if err := BuildSubtree(ctx, p, dir, opts); err != nil {
			return xerrors.Errorf("building %s: %w", dir, err)
		}
	}
	return nil
}

// subtreeFromCWD strips <root>/src/ from cwd to recover a subtree path,
// failing if cwd is not under it.
func subtreeFromCWD(p *Platform, cwd string) (string, error) {
	prefix := filepath.Join(p.RootDir, "src") + string(filepath.Separator)
	if !strings.HasPrefix(cwd+string(filepath.Separator), prefix) {
		return "", xerrors.Errorf("current directory %s is not under %s", cwd, prefix)
	}
	return filepath.ToSlash(strings.TrimPrefix(cwd, prefix)), nil
}
