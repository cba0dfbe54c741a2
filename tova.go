// Package tova wires the lexer, parser, and analyzer into the single
// Compile entry point described in §6.2: source text in, a Program AST
// and its semantic diagnostics out.
package tova

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tova-lang/tova/analyzer"
	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/parser"
)

// Result is the output of one Compile call: the parsed program, the
// warnings collected while analyzing it, and the root of its scope
// tree (for tooling that needs positional symbol lookup).
type Result struct {
	Program   *ast.Program
	Warnings  []analyzer.Diagnostic
	RootScope *analyzer.Scope
}

// Compile runs the full lex→parse→analyze pipeline over source (§6.2).
// A syntax error aborts immediately, mirroring the parser's no-resync
// policy (§4.2); semantic errors are returned as a *analyzer.BatchError
// alongside whatever warnings and scope tree the analyzer did manage to
// build.
func Compile(source []byte, filename string, options ...analyzer.Options) (*Result, error) {
	program, err := parser.Parse(filename, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	warnings, root, err := analyzer.Analyze(program, filename, options...)
	result := &Result{Program: program, Warnings: warnings, RootScope: root}
	if err != nil {
		return result, err
	}
	return result, nil
}

// Unit is one source file handed to CompileAll.
type Unit struct {
	Source   []byte
	Filename string
}

// CompileAll compiles every unit concurrently (§5: each Compile call
// owns its own Analyzer/Parser/Lexer state, so units never share
// mutable data beyond the read-only plugin registry). The first unit
// to fail aborts the remaining work and its error is returned; results
// are otherwise returned in the same order as units.
func CompileAll(ctx context.Context, units []Unit, options ...analyzer.Options) ([]*Result, error) {
	results := make([]*Result, len(units))

	g, ctx := errgroup.WithContext(ctx)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			result, err := Compile(unit.Source, unit.Filename, options...)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
