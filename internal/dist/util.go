package dist

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// mtime returns the modification time of path, or the zero Time if the
// file does not exist.
func mtime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func isAbs(path string) bool {
	return filepath.IsAbs(path)
}

// readDirNames lists the entries of dir, or nil if dir does not exist.
func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, xerrors.Errorf("reading %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", xerrors.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

// writeFile writes contents to path atomically (via rename), creating
// parent directories as needed, and marking the file executable when exec
// is true.
func writeFile(path, contents string, exec bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return xerrors.Errorf("creating directory for %s: %w", path, err)
	}
	mode := os.FileMode(0o666)
	if exec {
		mode = 0o777
	}
	if err := renameio.WriteFile(path, []byte(contents), mode); err != nil {
		return xerrors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func copyFile(dst, src string, execBit bool) error {
	contents, err := readFile(src)
	if err != nil {
		return err
	}
	return writeFile(dst, contents, execBit)
}

func chomp(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func splitFields(s string) []string {
	return strings.Fields(s)
}

// uniq removes duplicate strings, preserving the order of first occurrence.
func uniq(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0:0]
	for _, s := range list {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// filter keeps only the elements of list for which keep returns true.
func filter(list []string, keep func(string) bool) []string {
	out := list[:0:0]
	for _, s := range list {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func newWorkDir() (string, error) {
	return os.MkdirTemp("", "dist-build-")
}

// run executes name with args in dir (the process's own directory if dir
// is empty), streaming the child's stdout/stderr, and returns an error if
// the child exits non-zero. This is the "CheckExit" child-process policy
// from spec.md §5: every spawned process is expected to succeed. It takes
// a context so a future caller can cancel it, even though spec.md §5 says
// no cancellation primitive is required today (BuildSubtree passes its ctx
// through).
func run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return xerrors.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// runOutput is like run but captures and returns stdout instead of
// streaming it, for commands whose output the driver needs to parse (git
// queries, mostly).
func runOutput(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", xerrors.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out.String(), nil
}
