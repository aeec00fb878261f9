package dist

import (
	"path/filepath"
	"strings"
)

// selection is the result of running the source selector over one subtree:
// its resolved absolute file set and any auxiliary link libraries named by
// ".a" dependency tokens.
type selection struct {
	Dir      string
	Files    []string
	LinkLibs []string
}

// selectSources implements spec.md §4.2: it expands a subtree's plain
// directory listing plus its matching depTab tweaks into a deduplicated,
// build-tag-filtered, absolute file set.
func selectSources(p *Platform, dir string) (*selection, error) {
	srcDir := filepath.Join(p.RootDir, "src", dir)

	names, err := readDirNames(srcDir)
	if err != nil {
		return nil, err
	}

	files := append([]string(nil), names...)
	var linkLibs []string

	for _, rule := range depTab {
		if !strings.HasPrefix(dir, expandArchLetter(rule.Prefix, p)) {
			continue
		}
		for _, raw := range rule.Deps {
			token := substitutePlaceholders(p, raw)
			switch {
			case strings.HasSuffix(token, "/*"):
				base := strings.TrimSuffix(token, "/*")
				entries, err := readDirNames(base)
				if err != nil {
					return nil, err
				}
				for _, e := range entries {
					files = append(files, filepath.Join(base, e))
				}
			case strings.HasPrefix(token, "-"):
				excludePrefix := strings.TrimPrefix(token, "-")
				files = filter(files, func(f string) bool {
					return !strings.HasPrefix(filepath.Base(f), excludePrefix)
				})
			case strings.HasSuffix(token, ".a"):
				linkLibs = append(linkLibs, token)
			default:
				files = append(files, token)
			}
		}
	}

	abs := make([]string, 0, len(files))
	for _, f := range files {
		if isAbs(f) {
			abs = append(abs, f)
		} else {
			abs = append(abs, filepath.Join(srcDir, f))
		}
	}
	// Dedup after absolutizing, so a listing entry and the same file
	// reached through a "/*" expansion collapse into one.
	abs = uniq(abs)

	abs = filter(abs, func(f string) bool {
		return recognizedSuffixes[filepath.Ext(f)]
	})

	kept := abs[:0:0]
	for _, f := range abs {
		if !isFile(f) {
			// Missing: left in the set so the generator/staleness
			// phases can account for it (or fail with "missing file").
			kept = append(kept, f)
			continue
		}
		ok, err := shouldBuild(p, dir, f)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, f)
		}
	}

	return &selection{Dir: dir, Files: kept, LinkLibs: uniq(linkLibs)}, nil
}

// substitutePlaceholders replaces $GOROOT, $GOOS, $GOARCH inside a token
// with their resolved values. No shell quoting is needed: tokens end up as
// argv entries for spawned processes, never shell input.
func substitutePlaceholders(p *Platform, token string) string {
	r := strings.NewReplacer(
		"$GOROOT", p.RootDir,
		"$GOOS", p.TargetOS,
		"$GOARCH", p.TargetArch,
	)
	return r.Replace(token)
}
