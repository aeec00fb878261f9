package dist

import (
	"strings"
	"testing"
)

func fakeWorkDir() (string, error) { return "/fake/work", nil }

func fakeVersion(string) (string, error) { return "go1.0.0-test", nil }

func baseEnv() Env {
	return Env{
		Root:     "/fake/root",
		HostOS:   "linux",
		HostArch: "amd64",
	}
}

func TestLoadPlatformDefaults(t *testing.T) {
	p, err := loadPlatform(baseEnv(), fakeWorkDir, fakeVersion, false)
	if err != nil {
		t.Fatalf("loadPlatform: %v", err)
	}
	if p.TargetOS != p.HostOS || p.TargetArch != p.HostArch {
		t.Fatalf("target should default to host: got %s/%s, host %s/%s", p.TargetOS, p.TargetArch, p.HostOS, p.HostArch)
	}
	if p.BinDir != "/fake/root/bin" {
		t.Fatalf("BinDir = %q, want /fake/root/bin", p.BinDir)
	}
	if p.FinalRootDir != p.RootDir {
		t.Fatalf("FinalRootDir should default to RootDir")
	}
}

func TestLoadPlatformRejectsUnknownOS(t *testing.T) {
	env := baseEnv()
	env.TargetOS = "beos"
	if _, err := loadPlatform(env, fakeWorkDir, fakeVersion, false); err == nil {
		t.Fatal("expected error for unknown target OS")
	}
}

func TestLoadPlatformRejectsUnknownArch(t *testing.T) {
	env := baseEnv()
	env.HostArch = "sparc"
	if _, err := loadPlatform(env, fakeWorkDir, fakeVersion, false); err == nil {
		t.Fatal("expected error for unknown host arch")
	}
}

func TestLoadPlatformRequiresRoot(t *testing.T) {
	env := baseEnv()
	env.Root = ""
	if _, err := loadPlatform(env, fakeWorkDir, fakeVersion, false); err == nil {
		t.Fatal("expected error for empty GOROOT")
	}
}

// TestArchLetterCorrespondence is the "Arch-letter correspondence"
// invariant from spec.md §8: the arch at index i maps to the letter at
// index i of the three-letter table.
func TestArchLetterCorrespondence(t *testing.T) {
	if len(okArch) != len(archLetters) {
		t.Fatalf("okArch and archLetters length mismatch: %d vs %d", len(okArch), len(archLetters))
	}
	for i, arch := range okArch {
		env := baseEnv()
		env.TargetArch = arch
		p, err := loadPlatform(env, fakeWorkDir, fakeVersion, false)
		if err != nil {
			t.Fatalf("loadPlatform(%s): %v", arch, err)
		}
		if p.ArchLetter != archLetters[i] {
			t.Errorf("arch %s: ArchLetter = %q, want %q", arch, p.ArchLetter, archLetters[i])
		}
	}
}

// TestRecognizedSetClosure is the "Recognized-set closure" invariant: every
// okOS/okArch value is accepted, any other causes initialization to fail.
func TestRecognizedSetClosure(t *testing.T) {
	for _, os := range okOS {
		env := baseEnv()
		env.TargetOS = os
		if _, err := loadPlatform(env, fakeWorkDir, fakeVersion, false); err != nil {
			t.Errorf("recognized OS %s rejected: %v", os, err)
		}
	}
	for _, arch := range okArch {
		env := baseEnv()
		env.TargetArch = arch
		if _, err := loadPlatform(env, fakeWorkDir, fakeVersion, false); err != nil {
			t.Errorf("recognized arch %s rejected: %v", arch, err)
		}
	}

	env := baseEnv()
	env.TargetOS = "amiga"
	if _, err := loadPlatform(env, fakeWorkDir, fakeVersion, false); err == nil {
		t.Error("unrecognized OS accepted")
	} else if !strings.Contains(err.Error(), "amiga") {
		t.Errorf("error %v does not mention the bad value", err)
	}
}

func TestExe(t *testing.T) {
	p := &Platform{HostOS: "windows"}
	if p.Exe() != ".exe" {
		t.Errorf("Exe() on windows = %q, want .exe", p.Exe())
	}
	p.HostOS = "linux"
	if p.Exe() != "" {
		t.Errorf("Exe() on linux = %q, want empty", p.Exe())
	}
}

func TestToolDir(t *testing.T) {
	p := &Platform{RootDir: "/root", HostOS: "linux", HostArch: "amd64"}
	want := "/root/pkg/tool/linux_amd64"
	if got := p.ToolDir(); got != want {
		t.Errorf("ToolDir() = %q, want %q", got, want)
	}
}
