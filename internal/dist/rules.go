package dist

// packageManagerSubtree is the subtree designated as the package-manager
// command (the one special-cased throughout the driver: it links as a
// target-language command rather than a package, and "package main" is
// allowed there when shouldBuild would otherwise reject it). The historical
// C driver repeated the literal string at each call site and only
// special-cased "cmd/go"/"cmd/cgo"; the later Go rewrite generalized that to
// a single notion of "the bootstrap command", so naming it once here keeps
// this repository on the same trajectory rather than inventing a new one.
const packageManagerSubtree = "cmd/go"

// DepRule is a dependency-tweak rule: every rule whose Prefix, after
// expanding a "%s" arch-letter placeholder the same way buildOrder patterns
// are expanded, is a prefix of the subtree being built has its Deps tokens
// applied, in order, on top of the subtree's plain directory listing.
type DepRule struct {
	Prefix string
	Deps   []string
}

// depTab is the static dependency-tweak table. Entries are consulted in
// order; multiple matching rules all apply, each in table order.
var depTab = []DepRule{
	{Prefix: "lib9", Deps: []string{"$GOROOT/src/lib9/*"}},
	{Prefix: "libbio", Deps: []string{"$GOROOT/src/libbio/*"}},
	{Prefix: "libmach", Deps: []string{"$GOROOT/src/libmach/*"}},
	{Prefix: "cmd/cc", Deps: []string{"$GOROOT/src/cmd/cc/*", "-pgen.c", "-pswt.c"}},
	{Prefix: "cmd/gc", Deps: []string{"$GOROOT/src/cmd/gc/*", "lib9.a", "libbio.a"}},
	{Prefix: "cmd/%sl", Deps: []string{"pobj.c", "library.c", "$GOROOT/src/cmd/ld/*", "lib9.a", "libbio.a", "libmach.a"}},
	{Prefix: "cmd/%sa", Deps: []string{"$GOROOT/src/cmd/as/*", "lib9.a"}},
	{Prefix: "cmd/%sc", Deps: []string{"$GOROOT/src/cmd/cc/*", "-pgen.c", "-pswt.c", "lib9.a"}},
	{Prefix: "cmd/%sg", Deps: []string{"$GOROOT/src/cmd/gc/*", "lib9.a", "libbio.a"}},
	{Prefix: "pkg/runtime", Deps: []string{"zasm_$GOOS_$GOARCH.h", "zgoos.go", "zgoarch.go", "zversion.go"}},
	{Prefix: packageManagerSubtree, Deps: []string{"$GOROOT/src/pkg/go/build/*"}},
}

// recognizedSuffixes is the set of file extensions the source selector
// keeps; anything else is dropped in selector step 6.
var recognizedSuffixes = map[string]bool{
	".c":   true,
	".h":   true,
	".s":   true,
	".go":  true,
	".goc": true, // mixed Go/C syntax, translated by goc2c into a plain .c
}

// buildOrder is the fixed sequential list of subtree patterns the bootstrap
// orchestrator walks. A "%s" in a pattern is replaced by the target arch
// letter (e.g. "cmd/%sl" -> "cmd/6l" for amd64). Supplemented from
// original_source/build.c with the lib9/libbio/libmach C-library subtrees
// and the cmd/%sa /%sc /%sl /%sg per-arch toolchain subtrees, since spec.md
// names only an abstract "fixed sequential list" and this is what such a
// list looks like in the system the spec was distilled from.
var buildOrder = []string{
	"lib9",
	"libbio",
	"libmach",
	"cmd/%sa",
	"cmd/%sc",
	"cmd/%sl",
	"cmd/gc",
	"cmd/%sg",
	"pkg/runtime",
	"pkg/errors",
	"pkg/io",
	"pkg/bufio",
	"pkg/os",
	"pkg/fmt",
	"pkg/go/build",
	packageManagerSubtree,
}

// cleanList is the hard-coded subtree list §4.8's clean walks. It mirrors
// buildOrder: a subtree that was ever a build target is also a clean
// target.
var cleanList = buildOrder

// obsoleteToolBinaries names tool binaries from older layouts that setup
// deletes from <root>/bin (and from binDir, if it is a different directory
// that contains a compiler) so stale copies never shadow freshly built ones.
var obsoleteToolBinaries = []string{
	"6g", "8g", "5g",
	"6l", "8l", "5l",
	"6a", "8a", "5a",
	"6c", "8c", "5c",
	"gotest",
}
