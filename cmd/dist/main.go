// Command dist is the bootstrap build driver: it resolves source files and
// dependencies for a subtree, checks staleness, runs generators, drives the
// native-C and target-language toolchains, and links outputs, walking a
// fixed ordered list of subtrees when invoked as "bootstrap".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/distrikit/dist/internal/dist"
)

type cmdFunc func(ctx context.Context, p *dist.Platform, args []string) error

var verbs = map[string]cmdFunc{
	"env":       cmdEnv,
	"bootstrap": cmdBootstrap,
	"install":   cmdInstall,
	"clean":     cmdClean,
	"banner":    cmdBanner,
	"version":   cmdVersion,
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dist: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "usage" {
		topUsage()
		os.Exit(2)
	}

	fn, ok := verbs[args[0]]
	if !ok {
		topUsage()
		os.Exit(2)
	}

	p, err := dist.LoadPlatform()
	if err != nil {
		return err
	}
	defer p.Close()

	return fn(context.Background(), p, args[1:])
}

func topUsage() {
	fmt.Fprint(os.Stderr, `usage: go tool dist [command]

Commands are:

	banner        print installation banner
	bootstrap     build the toolchain and standard library from scratch
	clean         deletes all built files
	env [-p] [-w] print environment ($PATH with -p, "set" syntax with -w)
	install [dir] install one or more subtrees
	version       print Go version

`)
}
