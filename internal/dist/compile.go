package dist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// runtimeSubtree is the subtree carrying the language runtime, the one
// subject to the side-copies described in spec.md §4.6.
const runtimeSubtree = "pkg/runtime"

// runtimeOSIdentFile and compilerLexFile name the two C source files that
// receive extra -D defines during compilation (§4.6).
const (
	runtimeOSIdentFile = "runtime.c"
	compilerLexFile    = "lex.c"
)

type targetKind int

const (
	kindCLibrary targetKind = iota
	kindTargetPackage
	kindTargetCommand
	kindCCommand
)

// buildTarget is the transient target descriptor derived per subtree.
type buildTarget struct {
	Dir        string
	Kind       targetKind
	Name       string
	OutputPath string
}

// classifyTarget implements the subtree-kind rules from spec.md §4.6.
func classifyTarget(p *Platform, dir string) buildTarget {
	switch {
	case strings.HasPrefix(dir, "lib") || dir == "cmd/cc" || dir == "cmd/gc":
		name := filepath.Base(dir)
		if !strings.HasPrefix(name, "lib") {
			name = "lib" + name
		}
		return buildTarget{
			Dir: dir, Kind: kindCLibrary, Name: name,
			OutputPath: filepath.Join(p.RootDir, "pkg", "obj", name+".a"),
		}
	case dir == packageManagerSubtree:
		return buildTarget{
			Dir: dir, Kind: kindTargetCommand, Name: "go_bootstrap",
			OutputPath: filepath.Join(p.RootDir, "bin", "tool", "go_bootstrap"+p.Exe()),
		}
	case strings.HasPrefix(dir, "pkg"):
		subdir := strings.TrimPrefix(dir, "pkg/")
		return buildTarget{
			Dir: dir, Kind: kindTargetPackage, Name: subdir,
			OutputPath: filepath.Join(p.RootDir, "pkg", p.TargetOS+"_"+p.TargetArch, subdir+".a"),
		}
	default:
		name := filepath.Base(dir)
		return buildTarget{
			Dir: dir, Kind: kindCCommand, Name: name,
			OutputPath: filepath.Join(p.RootDir, "bin", "tool", name+p.Exe()),
		}
	}
}

// BuildOptions configures one subtree build invocation.
type BuildOptions struct {
	GenTab     []GenRule
	Translator Translator
	AuxLibs    []string // extra link libraries beyond sel.LinkLibs, in order
	PoolSize   int       // compile worker pool size; 0 means runtime.NumCPU()
}

// BuildSubtree runs the full select -> stale? -> generate -> compile ->
// link -> side-copies pipeline (spec.md §4.2-§4.6) for one subtree.
func BuildSubtree(ctx context.Context, p *Platform, dir string, opts BuildOptions) error {
	sel, err := selectSources(p, dir)
	if err != nil {
		return xerrors.Errorf("selecting %s: %w", dir, err)
	}

	target := classifyTarget(p, dir)

	if !isStale(p, sel, target.OutputPath) {
		return nil
	}

	if dir == runtimeSubtree {
		if err := preGenerateSideCopies(p, filepath.Join(p.RootDir, "src", dir)); err != nil {
			return err
		}
	}

	genTab := opts.GenTab
	if genTab == nil {
		genTab = p.GenTab()
	}
	if err := runGenerators(sel, genTab); err != nil {
		return xerrors.Errorf("generating for %s: %w", dir, err)
	}

	if dir == runtimeSubtree {
		srcDir := filepath.Join(p.RootDir, "src", dir)
		if err := postGenerateSideCopies(p, srcDir); err != nil {
			return err
		}
		if err := translateMixedSources(p, sel, opts.Translator); err != nil {
			return err
		}
	}

	cFiles := filter(sel.Files, func(f string) bool { return filepath.Ext(f) == ".c" })
	sFiles := filter(sel.Files, func(f string) bool { return filepath.Ext(f) == ".s" })
	goFiles := filter(sel.Files, func(f string) bool { return filepath.Ext(f) == ".go" })

	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	srcDir := filepath.Join(p.RootDir, "src", dir)

	cObjs, err := compileFiles(ctx, p, dir, cFiles, poolSize, func(f, obj string) (string, []string) {
		return "gcc", cCompileArgs(p, dir, srcDir, f, obj)
	})
	if err != nil {
		return xerrors.Errorf("compiling C sources in %s: %w", dir, err)
	}

	sObjs, err := compileFiles(ctx, p, dir, sFiles, poolSize, func(f, obj string) (string, []string) {
		return fmt.Sprintf("%ca", p.ArchLetter), asmCompileArgs(p, f, obj)
	})
	if err != nil {
		return xerrors.Errorf("assembling in %s: %w", dir, err)
	}

	objs := append(cObjs, sObjs...)

	var goObj string
	if (target.Kind == kindTargetPackage || target.Kind == kindTargetCommand) && len(goFiles) > 0 {
		goObj = filepath.Join(p.WorkDir, "_go_."+string(p.ArchLetter))
		if err := run(ctx, p.WorkDir, fmt.Sprintf("%cg", p.ArchLetter), targetCompileArgs(p, dir, target, goFiles, goObj)...); err != nil {
			return xerrors.Errorf("compiling %s package sources: %w", dir, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target.OutputPath), 0o777); err != nil {
		return xerrors.Errorf("creating output directory for %s: %w", dir, err)
	}
	_ = os.Remove(target.OutputPath)

	auxLibs := append(append([]string(nil), sel.LinkLibs...), opts.AuxLibs...)

	if err := link(ctx, p, target, objs, goObj, auxLibs); err != nil {
		return xerrors.Errorf("linking %s: %w", dir, err)
	}

	if dir == runtimeSubtree {
		if err := postLinkSideCopies(p, srcDir); err != nil {
			return err
		}
	}

	return nil
}

// compileFiles dispatches one compile command per file to a bounded worker
// pool (spec.md §5), waits for the pool to drain, then returns the
// resulting object paths in input order.
func compileFiles(ctx context.Context, p *Platform, dir string, files []string, poolSize int, argsFn func(file, obj string) (tool string, args []string)) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	sem := make(chan struct{}, poolSize)
	g, _ := errgroup.WithContext(ctx)
	objs := make([]string, len(files))

	for i, f := range files {
		i, f := i, f
		obj := objectPath(p, dir, f)
		objs[i] = obj

		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			tool, args := argsFn(f, obj)
			return run(ctx, p.WorkDir, tool, args...)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return objs, nil
}

// objectPath implements spec.md §4.6's object-placement rule: ordinarily
// under workDir, but C objects on a Darwin host persist under
// pkg/obj/<dir> for debuggers.
func objectPath(p *Platform, dir, file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".o"
	if p.HostOS == "darwin" && filepath.Ext(file) == ".c" {
		return filepath.Join(p.RootDir, "pkg", "obj", dir, base)
	}
	return filepath.Join(p.WorkDir, base)
}

// cBaseFlags is the fixed C compiler flag set: enable most warnings, turn
// warnings into errors, silence a handful of noisy ones, emit debug info,
// optimize, compile-only, plus the host-arch word size flag.
func cBaseFlags(p *Platform) []string {
	flags := []string{
		"-Wall", "-Werror",
		"-Wno-sign-compare", "-Wno-missing-braces", "-Wno-parentheses",
		"-g", "-O2", "-c",
	}
	if p.HostArch == "amd64" {
		flags = append(flags, "-m64")
	} else {
		flags = append(flags, "-m32")
	}
	return flags
}

// cCompileArgs builds one C compile command line, including the extra
// defines the runtime OS-identification file and the compiler-lex file
// receive.
func cCompileArgs(p *Platform, dir, srcDir, file, objPath string) []string {
	args := append([]string(nil), cBaseFlags(p)...)
	args = append(args, "-I", filepath.Join(p.RootDir, "include"), "-I", srcDir)
	if dir == "lib9" {
		args = append(args, "-DPLAN9PORT")
	}

	switch filepath.Base(file) {
	case runtimeOSIdentFile:
		args = append(args,
			"-DGOOS="+p.TargetOS,
			"-DGOARCH="+p.TargetArch,
			`-DGOROOT="`+escapeCString(p.RootDir)+`"`,
			`-DGOVERSION="`+escapeCString(p.Version)+`"`,
		)
	case compilerLexFile:
		args = append(args, "-DGOEXPERIMENT="+os.Getenv("GOEXPERIMENT"))
	}

	args = append(args, "-o", objPath, file)
	return args
}

// escapeCString doubles backslashes so a Go string embeds safely inside a
// C string literal passed via -D.
func escapeCString(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

// asmCompileArgs builds one assembly compile command line. -DGOARCH_<os>
// uses the OS value where the arch seems intended; this is preserved
// literally from the historical source rather than "corrected" (see
// DESIGN.md's Open Questions).
func asmCompileArgs(p *Platform, file, objPath string) []string {
	return []string{
		"-I", p.WorkDir,
		"-DGOOS_" + p.TargetOS,
		"-DGOARCH_" + p.TargetOS,
		"-o", objPath,
		file,
	}
}

// targetCompileArgs builds the single target-language compile invocation
// that compiles every .go file of a package or command in one call.
func targetCompileArgs(p *Platform, dir string, target buildTarget, goFiles []string, outPath string) []string {
	pkgPath := target.Name
	if target.Kind == kindTargetCommand {
		pkgPath = "main"
	}
	args := []string{"-o", outPath, "-p", pkgPath}
	if dir == runtimeSubtree {
		args = append(args, "-+")
	}
	args = append(args, goFiles...)
	return args
}

// link runs the final link step for target, appending an xerrors-wrapped
// context on failure.
func link(ctx context.Context, p *Platform, target buildTarget, objs []string, goObj string, auxLibs []string) error {
	switch target.Kind {
	case kindCLibrary:
		args := append([]string{"rsc", target.OutputPath}, objs...)
		return run(ctx, p.WorkDir, "ar", args...)

	case kindTargetPackage:
		args := append([]string{"grc", target.OutputPath}, objs...)
		if goObj != "" {
			args = append(args, goObj)
		}
		return run(ctx, p.WorkDir, "pack", args...)

	case kindTargetCommand:
		args := []string{"-o", target.OutputPath}
		if goObj != "" {
			args = append(args, goObj)
		}
		args = append(args, objs...)
		return run(ctx, p.WorkDir, fmt.Sprintf("%cl", p.ArchLetter), args...)

	case kindCCommand:
		args := append([]string{"-o", target.OutputPath}, objs...)
		args = append(args, auxLibs...)
		args = append(args, "-lm")
		return run(ctx, p.WorkDir, "gcc", args...)

	default:
		return xerrors.Errorf("unknown target kind for %s", target.Dir)
	}
}

// genericPlatformHeaders names the platform-specific runtime headers
// copied under generic names before the generate pass, so the rest of the
// runtime sources can #include a name that doesn't vary per platform.
func genericPlatformHeaders(p *Platform) map[string]string {
	return map[string]string{
		fmt.Sprintf("arch_%s.h", p.TargetArch):              "arch.h",
		fmt.Sprintf("defs_%s_%s.h", p.TargetOS, p.TargetArch): "defs.h",
		fmt.Sprintf("os_%s.h", p.TargetOS):                   "os.h",
		fmt.Sprintf("signals_%s.h", p.TargetOS):              "signals.h",
	}
}

func preGenerateSideCopies(p *Platform, srcDir string) error {
	for src, generic := range genericPlatformHeaders(p) {
		srcPath := filepath.Join(srcDir, src)
		if !isFile(srcPath) {
			continue
		}
		if err := copyFile(filepath.Join(p.WorkDir, generic), srcPath, false); err != nil {
			return xerrors.Errorf("copying %s: %w", src, err)
		}
	}
	return nil
}

func postGenerateSideCopies(p *Platform, srcDir string) error {
	src := filepath.Join(srcDir, fmt.Sprintf("zasm_%s_%s.h", p.TargetOS, p.TargetArch))
	if !isFile(src) {
		return nil
	}
	if err := copyFile(filepath.Join(p.WorkDir, "zasm.h"), src, false); err != nil {
		return xerrors.Errorf("copying generated assembly header: %w", err)
	}
	return nil
}

func postLinkSideCopies(p *Platform, srcDir string) error {
	dstDir := filepath.Join(p.RootDir, "pkg", p.TargetOS+"_"+p.TargetArch)
	if err := os.MkdirAll(dstDir, 0o777); err != nil {
		return xerrors.Errorf("creating %s: %w", dstDir, err)
	}
	for _, name := range []string{"runtime.h", "cgocall.h"} {
		srcPath := filepath.Join(srcDir, name)
		if !isFile(srcPath) {
			continue
		}
		if err := copyFile(filepath.Join(dstDir, name), srcPath, false); err != nil {
			return xerrors.Errorf("copying %s for cgo: %w", name, err)
		}
	}
	return nil
}
