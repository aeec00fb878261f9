// Package dist implements the mechanics of the bootstrap build driver:
// source selection, staleness checks, generator dispatch, the
// compiler/linker driver, and the bootstrap orchestrator. cmd/dist is a
// thin CLI shell around this package.
package dist

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// okOS is the set of recognized target/host operating systems.
var okOS = []string{
	"darwin",
	"freebsd",
	"linux",
	"netbsd",
	"openbsd",
	"plan9",
	"windows",
}

// okArch is the set of recognized target/host architectures, in the same
// order as archLetters: the i-th architecture maps to the i-th letter.
var okArch = []string{
	"arm",
	"amd64",
	"x86",
}

// archLetters assigns each recognized architecture a single toolchain
// letter, positionally paired with okArch.
const archLetters = "568"

// Platform holds the read-only, process-wide configuration resolved once at
// startup. Nothing in this package mutates a Platform after LoadPlatform
// returns it.
type Platform struct {
	HostOS   string
	HostArch string

	TargetOS   string
	TargetArch string

	// ArchLetter identifies TargetArch in toolchain binary names, e.g.
	// "<ArchLetter>a" is the assembler, "<ArchLetter>g" the compiler.
	ArchLetter byte

	RootDir      string
	BinDir       string
	FinalRootDir string
	WorkDir      string

	Version string

	Verbose int
}

// Env holds the subset of environment variables LoadPlatform consults, so
// tests can supply a fake environment instead of mutating the process one.
type Env struct {
	Root      string
	Bin       string
	HostOS    string
	HostArch  string
	TargetOS  string
	TargetArch string
	RootFinal string
}

func envFromProcess() Env {
	return Env{
		Root:       os.Getenv("GOROOT"),
		Bin:        os.Getenv("GOBIN"),
		HostOS:     os.Getenv("GOHOSTOS"),
		HostArch:   os.Getenv("GOHOSTARCH"),
		TargetOS:   os.Getenv("GOOS"),
		TargetArch: os.Getenv("GOARCH"),
		RootFinal:  os.Getenv("GOROOT_FINAL"),
	}
}

func findIndex(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

// LoadPlatform resolves the platform context from the process environment.
// It fails if the root directory, host OS/arch, or target OS/arch cannot be
// determined or are not members of the recognized sets.
func LoadPlatform() (*Platform, error) {
	return loadPlatform(envFromProcess(), newWorkDir, findVersion, true)
}

// loadPlatform is the testable core of LoadPlatform: it takes an explicit
// Env instead of reading os.Getenv, a workDir factory and a version
// resolver so tests don't touch the filesystem or shell out to git, and a
// flag for whether to smoke-test the root directory layout (tests on a
// fake root skip that check).
func loadPlatform(env Env, mkWorkDir func() (string, error), resolveVersion func(string) (string, error), checkRoot bool) (*Platform, error) {
	p := &Platform{}

	p.HostOS = env.HostOS
	if p.HostOS == "" {
		return nil, xerrors.New("$GOHOSTOS must be set")
	}
	if findIndex(okOS, p.HostOS) < 0 {
		return nil, xerrors.Errorf("unknown host OS %q", p.HostOS)
	}

	p.HostArch = env.HostArch
	if p.HostArch == "" {
		return nil, xerrors.New("$GOHOSTARCH must be set")
	}
	if findIndex(okArch, p.HostArch) < 0 {
		return nil, xerrors.Errorf("unknown host arch %q", p.HostArch)
	}

	p.RootDir = strings.TrimRight(env.Root, string(filepath.Separator))
	if p.RootDir == "" {
		return nil, xerrors.New("$GOROOT must be set")
	}

	p.BinDir = env.Bin
	if p.BinDir == "" {
		p.BinDir = filepath.Join(p.RootDir, "bin")
	}

	p.FinalRootDir = env.RootFinal
	if p.FinalRootDir == "" {
		p.FinalRootDir = p.RootDir
	}

	p.TargetOS = env.TargetOS
	if p.TargetOS == "" {
		p.TargetOS = p.HostOS
	}
	if findIndex(okOS, p.TargetOS) < 0 {
		return nil, xerrors.Errorf("unknown target OS %q", p.TargetOS)
	}

	p.TargetArch = env.TargetArch
	if p.TargetArch == "" {
		p.TargetArch = p.HostArch
	}
	i := findIndex(okArch, p.TargetArch)
	if i < 0 {
		return nil, xerrors.Errorf("unknown target arch %q", p.TargetArch)
	}
	p.ArchLetter = archLetters[i]

	if checkRoot {
		marker := filepath.Join(p.RootDir, "include", "bootstrap.h")
		if !isFile(marker) {
			return nil, xerrors.Errorf(
				"$GOROOT is not set correctly or not exported\n"+
					"\tGOROOT=%s\n"+
					"\t%s does not exist", p.RootDir, marker)
		}
	}

	wd, err := mkWorkDir()
	if err != nil {
		return nil, xerrors.Errorf("creating work directory: %w", err)
	}
	p.WorkDir = wd

	p.Version, err = resolveVersion(p.RootDir)
	if err != nil {
		return nil, xerrors.Errorf("resolving version: %w", err)
	}

	return p, nil
}

// ToolDir returns <root>/pkg/tool/<hostOS>_<hostArch>. The build driver
// does not install into it: built commands go to <root>/bin/tool.
func (p *Platform) ToolDir() string {
	return filepath.Join(p.RootDir, "pkg", "tool", p.HostOS+"_"+p.HostArch)
}

// Exe is the executable file suffix for the host OS.
func (p *Platform) Exe() string {
	if p.HostOS == "windows" {
		return ".exe"
	}
	return ""
}

// Close removes the work directory. It is idempotent and best-effort,
// matching the "removal is best-effort and idempotent" resource model in
// spec.md §5.
func (p *Platform) Close() error {
	if p.WorkDir == "" {
		return nil
	}
	return os.RemoveAll(p.WorkDir)
}
