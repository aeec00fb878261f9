package dist

import "path/filepath"

// isStale implements the refined mtime comparison from spec.md §4.4 (the
// "preferred" oracle, not the reference implementation's unconditional
// stale=1; see DESIGN.md for the resolved Open Question). targetPath is the
// eventual link output for the subtree.
func isStale(p *Platform, sel *selection, targetPath string) bool {
	targetMtime := mtime(targetPath)

	for _, f := range sel.Files {
		m := mtime(f)
		if m.IsZero() || m.After(targetMtime) {
			return true
		}
	}
	for _, lib := range sel.LinkLibs {
		m := mtime(resolveLinkLib(p, lib))
		if m.After(targetMtime) {
			return true
		}
	}
	return false
}

// resolveLinkLib maps a ".a" dependency token (e.g. "lib9.a") to the
// archive's on-disk location, where the C-library link step (§4.6) places
// it.
func resolveLinkLib(p *Platform, token string) string {
	if isAbs(token) {
		return token
	}
	return filepath.Join(p.RootDir, "pkg", "obj", token)
}
