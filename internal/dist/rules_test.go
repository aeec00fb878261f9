package dist

import "testing"

// TestDependencyOrdering is the "Dependency ordering" invariant from
// spec.md §8: a later "-x" exclusion removes files added by an earlier
// "/*" expansion but not vice versa.
func TestDependencyOrdering(t *testing.T) {
	root := t.TempDir()
	expandDir := root + "/extra"
	for _, name := range []string{"keep.c", "drop.c"} {
		if err := writeFile(expandDir+"/"+name, "int x;\n", false); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}

	rules := []DepRule{
		{Prefix: "sample", Deps: []string{"$GOROOT/extra/*", "-drop.c"}},
	}
	restore := depTab
	depTab = rules
	defer func() { depTab = restore }()

	p := &Platform{RootDir: root, TargetOS: "linux", TargetArch: "amd64"}
	if err := writeFile(root+"/src/sample/own.c", "int y;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sel, err := selectSources(p, "sample")
	if err != nil {
		t.Fatalf("selectSources: %v", err)
	}

	hasSuffix := func(suffix string) bool {
		for _, f := range sel.Files {
			if len(f) >= len(suffix) && f[len(f)-len(suffix):] == suffix {
				return true
			}
		}
		return false
	}

	if !hasSuffix("keep.c") {
		t.Error("expected keep.c (from /* expansion) to survive")
	}
	if hasSuffix("drop.c") {
		t.Error("expected drop.c to be removed by the later -drop.c exclusion")
	}
	if !hasSuffix("own.c") {
		t.Error("expected own.c (the subtree's own listing) to survive")
	}
}

func TestReversedOrderExclusionDoesNotRemoveLaterExpansion(t *testing.T) {
	root := t.TempDir()
	expandDir := root + "/extra"
	if err := writeFile(expandDir+"/drop.c", "int x;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	// Exclusion listed before the expansion: it cannot remove files the
	// expansion adds afterward, since rule tokens apply in declaration
	// order.
	rules := []DepRule{
		{Prefix: "sample2", Deps: []string{"-drop.c", "$GOROOT/extra/*"}},
	}
	restore := depTab
	depTab = rules
	defer func() { depTab = restore }()

	p := &Platform{RootDir: root, TargetOS: "linux", TargetArch: "amd64"}
	if err := writeFile(root+"/src/sample2/own.c", "int y;\n", false); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sel, err := selectSources(p, "sample2")
	if err != nil {
		t.Fatalf("selectSources: %v", err)
	}

	found := false
	for _, f := range sel.Files {
		if len(f) >= 6 && f[len(f)-6:] == "drop.c" {
			found = true
		}
	}
	if !found {
		t.Error("expected drop.c to survive: the exclusion token preceded the expansion in declaration order")
	}
}
