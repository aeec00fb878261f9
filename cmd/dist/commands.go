package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/distrikit/dist/internal/dist"
)

func cmdEnv(ctx context.Context, p *dist.Platform, args []string) error {
	fset := flag.NewFlagSet("env", flag.ExitOnError)
	var v verboseCount
	fset.Var(&v, "v", "print verbose output")
	printPath := fset.Bool("p", false, "also print $PATH")
	windowsFormat := fset.Bool("w", false, "print windows-style \"set NAME=VAL\" lines")
	fset.Usage = usage(fset, "usage: go tool dist env [-p] [-w]\n")
	if err := fset.Parse(args); err != nil {
		return err
	}
	p.Verbose = int(v)

	type kv struct{ name, val string }
	vars := []kv{
		{"GOROOT", p.RootDir},
		{"GOARCH", p.TargetArch},
		{"GOOS", p.TargetOS},
	}
	if *printPath {
		vars = append(vars, kv{"PATH", p.BinDir + string(pathListSeparator(p)) + os.Getenv("PATH")})
	}

	for _, e := range vars {
		if *windowsFormat {
			fmt.Printf("set %s=%s\n", e.name, e.val)
		} else {
			fmt.Printf("%s=%q\n", e.name, e.val)
		}
	}
	return nil
}

func cmdBootstrap(ctx context.Context, p *dist.Platform, args []string) error {
	fset := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	var v verboseCount
	fset.Var(&v, "v", "print verbose output")
	fset.Usage = usage(fset, "usage: go tool dist bootstrap [-v]\n")
	if err := fset.Parse(args); err != nil {
		return err
	}
	p.Verbose = int(v)
	return dist.Bootstrap(ctx, p, dist.BuildOptions{})
}

func cmdInstall(ctx context.Context, p *dist.Platform, args []string) error {
	fset := flag.NewFlagSet("install", flag.ExitOnError)
	var v verboseCount
	fset.Var(&v, "v", "print verbose output")
	fset.Usage = usage(fset, "usage: go tool dist install [-v] [dir...]\n")
	if err := fset.Parse(args); err != nil {
		return err
	}
	p.Verbose = int(v)
	return dist.Install(ctx, p, fset.Args(), dist.BuildOptions{})
}

func cmdClean(ctx context.Context, p *dist.Platform, args []string) error {
	fset := flag.NewFlagSet("clean", flag.ExitOnError)
	var v verboseCount
	fset.Var(&v, "v", "print verbose output")
	fset.Usage = usage(fset, "usage: go tool dist clean\n")
	if err := fset.Parse(args); err != nil {
		return err
	}
	p.Verbose = int(v)
	return dist.Clean(p)
}

func cmdBanner(ctx context.Context, p *dist.Platform, args []string) error {
	fset := flag.NewFlagSet("banner", flag.ExitOnError)
	var v verboseCount
	fset.Var(&v, "v", "print verbose output")
	fset.Usage = usage(fset, "usage: go tool dist banner\n")
	if err := fset.Parse(args); err != nil {
		return err
	}
	p.Verbose = int(v)

	fmt.Printf("\n---\nInstalled commands in %s.\n", p.BinDir)

	onPath := false
	for _, dir := range strings.Split(os.Getenv("PATH"), string(pathListSeparator(p))) {
		if dir == p.BinDir {
			onPath = true
			break
		}
	}
	if !onPath {
		fmt.Printf("*** You need to add %s to your PATH.\n", p.BinDir)
	}

	if p.HostOS == "darwin" {
		fmt.Println("On OS X, the debugger must be installed separately; see https://golang.org/wiki/Debuggers.")
	}

	if p.FinalRootDir != p.RootDir {
		fmt.Printf("*** You need to set $GOROOT_FINAL to %s before moving the tree.\n", p.FinalRootDir)
	}
	return nil
}

func cmdVersion(ctx context.Context, p *dist.Platform, args []string) error {
	fset := flag.NewFlagSet("version", flag.ExitOnError)
	fset.Usage = usage(fset, "usage: go tool dist version\n")
	if err := fset.Parse(args); err != nil {
		return err
	}
	fmt.Println(p.Version)
	return nil
}

func pathListSeparator(p *dist.Platform) rune {
	if p.TargetOS == "windows" {
		return ';'
	}
	return ':'
}
