package engine

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

var (
	packageClause = regexp.MustCompile(`(?m)^\s*package\s+\w+`)
	mainFunc      = regexp.MustCompile(`(?m)^\s*func\s+main\s*\(`)
)

// Golang interprets Go modules with yaegi. A module is either a main
// package whose main function runs, or a script of top-level statements.
type Golang struct {
	// GoPath is handed to the interpreter for resolving local imports.
	GoPath string
}

// NewGolang creates a Go engine.
func NewGolang() *Golang {
	return &Golang{}
}

// Name returns the engine name.
func (g *Golang) Name() string {
	return "golang"
}

// Extensions returns the file extensions the engine claims.
func (g *Golang) Extensions() []string {
	return []string{".go"}
}

// Exec evaluates the program in a fresh interpreter.
func (g *Golang) Exec(ctx context.Context, prog Program, out io.Writer) error {
	i := interp.New(interp.Options{
		GoPath: g.GoPath,
		Stdout: out,
		Stderr: out,
	})

	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("failed to load stdlib: %w", err)
	}

	if _, err := i.EvalWithContext(ctx, wrapGoSource(prog.Source)); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("execution interrupted: %w", ctx.Err())
		}
		return err
	}
	return nil
}

// wrapGoSource puts files that declare main without a package clause in
// package main so that main runs. Anything else is left for the
// interpreter to evaluate as a script of top-level statements.
func wrapGoSource(src string) string {
	if packageClause.MatchString(src) || !mainFunc.MatchString(src) {
		return src
	}
	return "package main\n\n" + src
}
