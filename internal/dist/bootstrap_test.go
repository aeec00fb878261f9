package dist

import (
	"path/filepath"
	"testing"
)

// TestArchLetterExpansion is boundary scenario 5 from spec.md §8.
func TestArchLetterExpansion(t *testing.T) {
	p := &Platform{TargetArch: "amd64", ArchLetter: '6'}
	if got := expandArchLetter("cmd/%sl", p); got != "cmd/6l" {
		t.Errorf("expandArchLetter = %q, want cmd/6l", got)
	}
}

func TestSubtreeFromCWD(t *testing.T) {
	p := &Platform{RootDir: "/goroot"}

	got, err := subtreeFromCWD(p, "/goroot/src/pkg/fmt")
	if err != nil {
		t.Fatalf("subtreeFromCWD: %v", err)
	}
	if got != "pkg/fmt" {
		t.Errorf("subtreeFromCWD = %q, want pkg/fmt", got)
	}

	if _, err := subtreeFromCWD(p, "/elsewhere"); err == nil {
		t.Error("expected error for a CWD outside GOROOT/src")
	}
}

func TestBuildOrderExpansionIsWellFormed(t *testing.T) {
	p := &Platform{TargetArch: "amd64", ArchLetter: '6'}
	for _, pattern := range buildOrder {
		dir := expandArchLetter(pattern, p)
		if filepath.IsAbs(dir) {
			t.Errorf("build order pattern %q expanded to an absolute path %q", pattern, dir)
		}
	}
}
