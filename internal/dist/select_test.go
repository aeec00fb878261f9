package dist

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestExclusionToken is boundary scenario 4 from spec.md §8: with
// selection {pgen.c, pswt.c, foo.c} and rule tokens {-pgen.c, -pswt.c},
// the final selection is {foo.c}.
func TestExclusionToken(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src", "cmd", "cc")
	for _, name := range []string{"pgen.c", "pswt.c", "foo.c"} {
		if err := writeFile(filepath.Join(srcDir, name), "int x;\n", false); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}

	p := &Platform{RootDir: root, TargetOS: "linux", TargetArch: "amd64"}
	sel, err := selectSources(p, "cmd/cc")
	if err != nil {
		t.Fatalf("selectSources: %v", err)
	}

	var bases []string
	for _, f := range sel.Files {
		bases = append(bases, filepath.Base(f))
	}
	sort.Strings(bases)

	want := []string{"foo.c"}
	if diff := cmp.Diff(want, bases); diff != "" {
		t.Errorf("selected files mismatch (-want +got):\n%s", diff)
	}
}

// TestDedupIdempotence is the "Dedup idempotence" invariant: applying the
// selector twice to the same inputs yields the same absolute file list.
func TestDedupIdempotence(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src", "pkg", "sample")
	if err := writeFile(filepath.Join(srcDir, "a.c"), "int x;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	p := &Platform{RootDir: root, TargetOS: "linux", TargetArch: "amd64"}

	first, err := selectSources(p, "pkg/sample")
	if err != nil {
		t.Fatalf("selectSources (first): %v", err)
	}
	second, err := selectSources(p, "pkg/sample")
	if err != nil {
		t.Fatalf("selectSources (second): %v", err)
	}

	if diff := cmp.Diff(first.Files, second.Files); diff != "" {
		t.Errorf("selector not idempotent (-first +second):\n%s", diff)
	}
}

func TestSelectSourcesDropsUnrecognizedSuffixes(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src", "pkg", "sample")
	if err := writeFile(filepath.Join(srcDir, "a.c"), "int x;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := writeFile(filepath.Join(srcDir, "README.md"), "notes\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	p := &Platform{RootDir: root, TargetOS: "linux", TargetArch: "amd64"}
	sel, err := selectSources(p, "pkg/sample")
	if err != nil {
		t.Fatalf("selectSources: %v", err)
	}
	for _, f := range sel.Files {
		if filepath.Ext(f) == ".md" {
			t.Errorf("unrecognized suffix %s leaked into selection", f)
		}
	}
}

// TestPerArchDepRulesResolveAgainstExpandedDir ensures the real depTab's
// "cmd/%sl"-style prefixes match the arch-letter-resolved directory names
// BuildSubtree actually sees (e.g. "cmd/6l"), not the literal "%s" pattern,
// so the shared linker sources and lib9.a/libbio.a/libmach.a auxiliary
// libraries are still pulled in.
func TestPerArchDepRulesResolveAgainstExpandedDir(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src", "cmd", "6l")
	if err := writeFile(filepath.Join(srcDir, "own.c"), "int x;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	ldDir := filepath.Join(root, "src", "cmd", "ld")
	if err := writeFile(filepath.Join(ldDir, "shared.c"), "int y;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	p := &Platform{RootDir: root, TargetOS: "linux", TargetArch: "amd64", ArchLetter: '6'}
	sel, err := selectSources(p, "cmd/6l")
	if err != nil {
		t.Fatalf("selectSources: %v", err)
	}

	var bases []string
	for _, f := range sel.Files {
		bases = append(bases, filepath.Base(f))
	}
	sort.Strings(bases)
	// pobj.c and library.c are bare tokens of the cmd/%sl rule; they are
	// missing here and stay in the selection for the generate phase.
	want := []string{"library.c", "own.c", "pobj.c", "shared.c"}
	if diff := cmp.Diff(want, bases); diff != "" {
		t.Errorf("selected files mismatch (-want +got):\n%s", diff)
	}

	wantLibs := []string{"lib9.a", "libbio.a", "libmach.a"}
	gotLibs := append([]string(nil), sel.LinkLibs...)
	sort.Strings(gotLibs)
	if diff := cmp.Diff(wantLibs, gotLibs); diff != "" {
		t.Errorf("link libraries mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	p := &Platform{RootDir: "/goroot", TargetOS: "linux", TargetArch: "amd64"}
	got := substitutePlaceholders(p, "$GOROOT/src/$GOOS_$GOARCH/*")
	want := "/goroot/src/linux_amd64/*"
	if got != want {
		t.Errorf("substitutePlaceholders = %q, want %q", got, want)
	}
}
