package main

import (
	"github.com/jasskit/jasskit/syntax"
	"github.com/jasskit/jasskit/transpiler"
)

// TranspileCmd represents the transpile command
type TranspileCmd struct {
	Lib     []string `help:"Library scripts that declare natives and globals (repeatable)"`
	Input   string   `arg:"" help:"Input script ('-' for stdin)"`
	Output  string   `short:"o" help:"Output Go file (default: stdout)"`
	Package string   `help:"Go package name"`
	Export  bool     `help:"Export unit-level names"`
}

// Run executes the transpile command
func (cmd *TranspileCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	libraries := append(append([]string{}, config.Transpile.Libraries...), cmd.Lib...)

	units := make([]*syntax.CompilationUnit, 0, len(libraries)+1)
	for _, path := range append(libraries, cmd.Input) {
		src, err := ctx.readInput(path)
		if err != nil {
			return err
		}

		unit, err := parseScript(path, src)
		if err != nil {
			return err
		}
		units = append(units, unit)

		ctx.verbosef("Parsed %s", path)
	}

	opts := config.Transpile.Options()
	if cmd.Package != "" {
		opts = append(opts, transpiler.WithPackageName(cmd.Package))
	}
	if cmd.Export {
		opts = append(opts, transpiler.WithExportedNames(true))
	}

	source, err := transpiler.Transpile(units, opts...)
	if err != nil {
		return err
	}

	return ctx.writeOutput(cmd.Output, source)
}
