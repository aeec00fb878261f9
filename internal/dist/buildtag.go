package dist

import (
	"path/filepath"
	"strings"
)

// shouldBuild is the build-tag predicate from spec.md §4.3. subtreeDir is
// the subtree path being built (relative to <root>/src), used to decide
// whether "package main" is allowed and to scope the packageManagerSubtree's
// doc.go special case.
func shouldBuild(p *Platform, subtreeDir, path string) (bool, error) {
	base := filepath.Base(path)

	if strings.Contains(base, "_test") {
		return false, nil
	}
	if subtreeDir == packageManagerSubtree && base == "doc.go" {
		return false, nil
	}
	if nameSniffsOtherPlatform(p, base) {
		return false, nil
	}

	contents, err := readFile(path)
	if err != nil {
		return false, err
	}
	return scanLeadingComments(p, subtreeDir, contents), nil
}

// nameSniffsOtherPlatform rejects a file whose basename contains the name of
// a recognized OS or arch other than the current target, anywhere in the
// name, not only as a trailing "_os_arch" component.
func nameSniffsOtherPlatform(p *Platform, base string) bool {
	for _, os := range okOS {
		if os == p.TargetOS {
			continue
		}
		if strings.Contains(base, os) {
			return true
		}
	}
	for _, arch := range okArch {
		if arch == p.TargetArch {
			continue
		}
		if strings.Contains(base, arch) {
			return true
		}
	}
	return false
}

// scanLeadingComments walks contents top-down. Leading "//" comment lines
// are checked for "+build" directives (ANDed across lines, ORed within a
// line); the scan stops at the first non-comment, non-blank line, which is
// itself checked for the "package documentation" and disallowed
// "package main" cases.
func scanLeadingComments(p *Platform, subtreeDir, contents string) bool {
	ok := true
	for _, line := range splitLines(contents) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(trimmed, "//") {
			if strings.Contains(trimmed, "package documentation") {
				return false
			}
			if strings.Contains(trimmed, "package main") && subtreeDir != packageManagerSubtree {
				return false
			}
			break
		}

		body := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
		if body == "+build" || strings.HasPrefix(body, "+build ") {
			tags := splitFields(strings.TrimPrefix(body, "+build"))
			if len(tags) > 0 && !matchAnyField(p, tags) {
				ok = false
			}
		}
	}
	return ok
}

// matchAnyField reports whether any of the space-separated tags on one
// +build line matches (tags on a line are ORed).
func matchAnyField(p *Platform, tags []string) bool {
	for _, tag := range tags {
		if matchField(p, tag) {
			return true
		}
	}
	return false
}

// matchField reports whether a single +build tag matches the current
// platform: the target OS, the target arch, the cmd_go_bootstrap pseudo-tag,
// or a "!x" negation of any of those.
func matchField(p *Platform, tag string) bool {
	if strings.HasPrefix(tag, "!") {
		return !matchField(p, tag[1:])
	}
	return tag == p.TargetOS || tag == p.TargetArch || tag == "cmd_go_bootstrap"
}
