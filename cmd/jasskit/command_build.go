package main

import (
	"bytes"
	"os"

	"github.com/jasskit/jasskit/script"
)

// BuildCmd represents the build command
type BuildCmd struct {
	Entry  string `arg:"" optional:"" help:"Entry script relative to the source directory (default: build.entry)"`
	Output string `short:"o" help:"Output script (default: build.output)"`
}

// Run executes the build command
func (cmd *BuildCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	var opts []script.Option
	if config.Obfuscation.Enabled {
		shared, err := loadRenameMap(config.Obfuscation.SharedMap)
		if err != nil {
			return err
		}
		if shared != nil {
			opts = append(opts, script.WithSharedMap(shared))
		}
	}

	compiler, err := script.NewCompiler(os.DirFS(config.Build.SourceDir), config, opts...)
	if err != nil {
		return err
	}

	ctx.verbosef("Building %s from %s", cmd.entry(config.Build.Entry), config.Build.SourceDir)

	result, err := compiler.Build(ctx.ctx, cmd.Entry)
	if err != nil {
		if result != nil {
			writeText(ctx.stderr, []fileReport{{Name: cmd.entry(config.Build.Entry), Diagnostics: result.Diagnostics}})
		}
		return err
	}

	output := cmd.Output
	if output == "" {
		output = config.Build.Output
	}

	if err := ctx.writeOutput(output, []byte(result.Source)); err != nil {
		return err
	}

	var manifest bytes.Buffer
	if err := result.Manifest.Write(&manifest); err != nil {
		return err
	}

	if err := ctx.writeOutput(config.Build.Manifest, manifest.Bytes()); err != nil {
		return err
	}

	if err := saveRenameMap(ctx, config.Obfuscation.MapFile, result.RenameMap); err != nil {
		return err
	}

	ctx.infof("Built %s (%d files)", output, len(result.Manifest.Files))

	return nil
}

func (cmd *BuildCmd) entry(fallback string) string {
	if cmd.Entry != "" {
		return cmd.Entry
	}
	return fallback
}
