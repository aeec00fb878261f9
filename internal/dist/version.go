package dist

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// versionPrefixes are the recognized tag prefixes that findVersion looks
// for along the current branch. The first ref matching any of them wins;
// their order here does not rank them.
var versionPrefixes = []string{"go", "release.", "weekly."}

// findVersion determines the version string for rootDir, following the
// precedence from spec.md §4.1: an explicit VERSION file, then a cached
// VERSION.cache, then a fresh lookup against the source-control tool, whose
// result is cached for next time.
func findVersion(rootDir string) (string, error) {
	versionPath := filepath.Join(rootDir, "VERSION")
	if isFile(versionPath) {
		s, err := readFile(versionPath)
		if err != nil {
			return "", err
		}
		// dist version > VERSION creates an empty VERSION file before
		// dist has produced any output; ignore it in that case.
		if v := chomp(s); v != "" {
			return v, nil
		}
	}

	cachePath := filepath.Join(rootDir, "VERSION.cache")
	if isFile(cachePath) {
		s, err := readFile(cachePath)
		if err != nil {
			return "", err
		}
		return chomp(s), nil
	}

	v, err := versionFromGit(rootDir)
	if err != nil {
		return "", xerrors.Errorf("FAILED: not a git repo and no VERSION file: %w", err)
	}

	if err := writeFile(cachePath, v, false); err != nil {
		return "", err
	}
	return v, nil
}

// versionFromGit asks git for the branch and tags reachable from HEAD and
// builds a version string: the first tag matching versionPrefixes walking
// back from HEAD, with a short revision hash appended if HEAD is not that
// tag exactly, or "branch.<name>" if no recognized tag is found.
func versionFromGit(rootDir string) (string, error) {
	branchOut, err := runOutput(context.Background(), rootDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", xerrors.Errorf("determining current branch: %w", err)
	}
	branch := chomp(branchOut)

	logOut, err := runOutput(context.Background(), rootDir, "git", "log", "--decorate=full", "--pretty=format:%D")
	if err != nil {
		return "", xerrors.Errorf("listing decorated log: %w", err)
	}

	tag := ""
	commitsBeforeTag := 0
	for _, line := range splitLines(logOut) {
		if t, ok := firstRecognizedTag(line); ok {
			tag = t
			break
		}
		commitsBeforeTag++
	}

	if tag == "" {
		return "branch." + branch, nil
	}
	if commitsBeforeTag == 0 {
		return tag, nil
	}

	hashOut, err := runOutput(context.Background(), rootDir, "git", "log", "-n", "1", "--format=format:%h")
	if err != nil {
		return "", xerrors.Errorf("resolving revision hash: %w", err)
	}
	return tag + " +" + chomp(hashOut), nil
}

// firstRecognizedTag scans a comma-separated git --decorate=full ref list
// (as produced by --pretty=format:%D) for the first ref matching
// versionPrefixes.
func firstRecognizedTag(decoration string) (string, bool) {
	for _, ref := range strings.Split(decoration, ",") {
		ref = strings.TrimSpace(ref)
		ref = strings.TrimPrefix(ref, "tag: ")
		ref = strings.TrimPrefix(ref, "refs/tags/")
		for _, prefix := range versionPrefixes {
			if strings.HasPrefix(ref, prefix) {
				return ref, true
			}
		}
	}
	return "", false
}
