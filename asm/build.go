// Package asm implements an assembler which turns a CHIP-8 source file and
// its includes into a raw ROM image.
package asm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hexaflex/chip8/asm/parser"
	"github.com/pkg/errors"
)

// Build builds a ROM image from the given source file and its includes.
// Include paths are resolved relative to the including file first, then
// through the given search paths.
func Build(file string, includeSearchPaths []string) ([]byte, error) {
	ast, err := BuildAST(file, includeSearchPaths)
	if err != nil {
		return nil, err
	}

	return Assemble(ast)
}

// BuildAST builds the full AST for the given file and its includes.
func BuildAST(file string, includeSearchPaths []string) (*parser.AST, error) {
	ast := parser.NewAST()
	b := &builder{
		paths:    includeSearchPaths,
		included: make(map[string]bool),
	}
	return ast, b.buildAST(ast, file, b.paths, nil)
}

// builder tracks the files read into an AST. A file is only ever included
// once; later includes of the same file are dropped.
type builder struct {
	paths    []string
	included map[string]bool
}

// buildAST reads the given source file and its includes into the specified AST.
// It ensures the file and its includes do not contain any circular include references.
func (b *builder) buildAST(ast *parser.AST, file string, includeSearchPaths, dependencyChain []string) error {
	file, err := filepath.Abs(findSourceFile(file, includeSearchPaths))
	if err != nil {
		return err
	}

	if containsString(dependencyChain, file) {
		return errors.Errorf("circular reference to file %q detected", file)
	}

	if b.included[file] {
		return nil
	}

	b.included[file] = true
	dependencyChain = append(dependencyChain, file)

	if err := ast.ParseFile(file); err != nil {
		return err
	}

	dir, _ := filepath.Split(file)
	paths := append([]string{dir}, b.paths...)
	return b.testAndBuildIncludes(ast.Nodes(), paths, dependencyChain)
}

// testAndBuildIncludes finds all include statements in the given AST and checks them recursively.
// If valid, parses them into the AST in place of the include statement.
func (b *builder) testAndBuildIncludes(nodes *parser.List, includeSearchPaths, dependencyChain []string) error {
	for i := 0; i < nodes.Len(); i++ {
		node := nodes.At(i)
		if node.Type() != parser.Instruction {
			continue
		}

		instr := node.(*parser.List)
		name := instr.At(0).(*parser.Value).Value
		if !strings.EqualFold(name, "include") {
			continue
		}

		if instr.Len() != 2 {
			return parser.NewError(instr.Position(), "invalid include statement; expected `include \"path\"`")
		}

		expr := instr.At(1).(*parser.List)
		arg := expr.At(0)
		if expr.Len() != 1 || arg.Type() != parser.String {
			return parser.NewError(arg.Position(), "invalid include path; expected string")
		}

		// Parse source file into its own AST.
		path := arg.(*parser.Value).Value
		ast := parser.NewAST()

		if err := b.buildAST(ast, path, includeSearchPaths, dependencyChain); err != nil {
			var perr *parser.Error
			if errors.As(err, &perr) {
				return err
			}
			return parser.NewError(instr.Position(), "%v", err)
		}

		// Replace include node with contents of the new AST.
		set := ast.Nodes().Slice()
		if len(set) == 0 {
			nodes.Remove(i)
			i--
			continue
		}

		nodes.ReplaceAt(i, set...)
		i += len(set) - 1
	}
	return nil
}

// findSourceFile returns the fully qualified version of file.
// Returns file as-is if it exists on disk. If not, looks in directories
// specified by the given include search paths.
func findSourceFile(file string, includeSearchPaths []string) string {
	if filepath.IsAbs(file) {
		return file
	}

	for _, inc := range includeSearchPaths {
		path := filepath.Join(inc, file)
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			return path
		}
	}

	return file
}

// containsString returns true if set contains v.
func containsString(set []string, v string) bool {
	for _, sv := range set {
		if sv == v {
			return true
		}
	}
	return false
}
