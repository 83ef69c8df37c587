/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Command htmlgrep searches HTML documents with a composable pattern
// pipeline. See the root command's help text for usage.
package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pgaskin/htmlgrep/internal/expr"
	"github.com/pgaskin/htmlgrep/internal/herr"
	"github.com/pgaskin/htmlgrep/internal/ioacq"
	"github.com/pgaskin/htmlgrep/internal/pattern"
	"github.com/pgaskin/htmlgrep/internal/pipeline"
	"github.com/pgaskin/htmlgrep/internal/runctx"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		flagICase    bool
		flagInvert   bool
		flagList     bool
		flagOut      string
		flagPatFile  string
		flagExtended bool
		flagFollow   bool
		flagRecurse  bool
		flagRecurseF bool
		flagFast     bool
	)

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cmd := &cobra.Command{
		Use:           "htmlgrep [OPTIONS]... PATTERN [FILE...]",
		Short:         "search HTML element trees with a composable pattern pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, searchOptions{
				icase:      flagICase,
				invert:     flagInvert,
				list:       flagList,
				outPath:    flagOut,
				patFile:    flagPatFile,
				extended:   flagExtended,
				follow:     flagFollow,
				recurse:    flagRecurse,
				recurseF:   flagRecurseF,
				fast:       flagFast,
				stdin:      stdin,
				stdout:     stdout,
				log:        log,
			})
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().BoolVarP(&flagICase, "icase", "i", false, "case-insensitive patterns")
	cmd.Flags().BoolVarP(&flagInvert, "invert", "v", false, "invert match (tag term)")
	cmd.Flags().BoolVarP(&flagList, "list", "l", false, "list structure instead of matched text")
	cmd.Flags().StringVarP(&flagOut, "output", "o", "", "write output to PATH instead of stdout")
	cmd.Flags().StringVarP(&flagPatFile, "file", "f", "", "read PATTERN from PATH")
	cmd.Flags().BoolVarP(&flagExtended, "extended-regexp", "E", false, "extended regex syntax")
	cmd.Flags().BoolVarP(&flagFollow, "follow", "H", false, "follow symlinks (non-recursive)")
	cmd.Flags().BoolVarP(&flagRecurse, "recursive", "r", false, "recurse into directories")
	cmd.Flags().BoolVarP(&flagRecurseF, "recursive-follow", "R", false, "recurse and follow symlinks")
	cmd.Flags().BoolVarP(&flagFast, "fast", "F", false, "fast mode (linear-only, low memory)")

	// cobra's auto-registered --version flag claims shorthand "v" when
	// available, but "-v" is already invert here; register it ourselves
	// with "-V" (spec'd shorthand) so cobra finds it already defined and
	// doesn't fall back to a shorthand-less --version.
	cmd.Flags().BoolP("version", "V", false, "version for "+cmd.Name())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "htmlgrep:", err)
		return 1
	}
	return 0
}

type searchOptions struct {
	icase, invert, list                 bool
	outPath, patFile                    string
	extended, follow, recurse, recurseF bool
	fast                                 bool
	stdin                                io.Reader
	stdout                               io.Writer
	log                                  *slog.Logger
}

func runSearch(cmd *cobra.Command, args []string, o searchOptions) error {
	patternText, fileArgs, err := resolvePattern(o.patFile, args)
	if err != nil {
		return err
	}

	flags := pattern.Flags{ICase: o.icase, Extended: o.extended}
	compiled, err := expr.Compile(patternText, flags)
	if err != nil {
		return err
	}
	if o.invert {
		invertRoot(compiled)
	}

	out := o.stdout
	if o.outPath != "" {
		f, err := os.Create(o.outPath)
		if err != nil {
			return herr.New(herr.Io, "create %s: %s", o.outPath, err)
		}
		defer f.Close()
		out = f
	}

	rc := &runctx.RunContext{
		Expr:          compiled,
		Out:           out,
		Log:           o.log,
		Fast:          o.fast,
		ListStructure: o.list,
	}

	paths, err := expandPaths(fileArgs, o.recurse, o.recurseF, o.follow, o.log)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		input, err := ioacq.ReadStdin(o.stdin)
		if err != nil {
			return herr.New(herr.Io, "stdin: %s", err)
		}
		return searchOne(rc, input)
	}

	var ioErr error
	for _, p := range paths {
		input, closer, err := ioacq.ReadFile(o.log, p)
		if err != nil {
			o.log.Warn("skipping unreadable file", "path", p, "error", err)
			ioErr = herr.New(herr.Io, "one or more files failed to read")
			continue
		}
		err = searchOne(rc, input)
		closer()
		if err != nil {
			return err
		}
	}
	return ioErr
}

func searchOne(rc *runctx.RunContext, input []byte) error {
	nodes, set, err := pipeline.Run(input, rc.Expr, rc.Fast, rc.Log)
	if err != nil {
		return err
	}
	if rc.ListStructure {
		return pipeline.EmitStructure(rc.Out, nodes, set)
	}
	return pipeline.Emit(rc.Out, nodes, set)
}

func resolvePattern(patFile string, args []string) (string, []string, error) {
	if patFile != "" {
		b, err := os.ReadFile(patFile)
		if err != nil {
			return "", nil, herr.New(herr.Usage, "read pattern file %s: %s", patFile, err)
		}
		return string(bytes.TrimRight(b, "\n")), args, nil
	}
	if len(args) == 0 {
		return "", nil, herr.New(herr.Usage, "missing PATTERN")
	}
	return args[0], args[1:], nil
}

func expandPaths(args []string, recurse, recurseF, follow bool, log *slog.Logger) ([]string, error) {
	var out []string
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			log.Warn("skipping unreadable path", "path", a, "error", err)
			continue
		}
		if !fi.IsDir() {
			out = append(out, a)
			continue
		}
		if !recurse && !recurseF {
			log.Warn("skipping directory (pass -r/-R to recurse)", "path", a)
			continue
		}
		followSymlinks := recurseF || follow
		err = filepath.WalkDir(a, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("walk error", "path", path, "error", err)
				return nil
			}
			if d.Type()&os.ModeSymlink != 0 {
				if !followSymlinks {
					return nil
				}
				target, err := filepath.EvalSymlinks(path)
				if err != nil {
					log.Warn("unresolvable symlink", "path", path, "error", err)
					return nil
				}
				tfi, err := os.Stat(target)
				if err != nil || tfi.IsDir() {
					return nil
				}
				out = append(out, path)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, herr.New(herr.Io, "walk %s: %s", a, err)
		}
	}
	return out, nil
}

// invertRoot applies -v to the compiled expression's tag terms: it
// flips the tag term of every leaf in the tree, including leaves inside
// sequences, alternatives and nested groups.
func invertRoot(n *expr.Node) {
	switch n.Kind {
	case expr.Leaf:
		n.Pattern.Tag.Invert = !n.Pattern.Tag.Invert
	default:
		for _, c := range n.Children {
			invertRoot(c)
		}
	}
}
