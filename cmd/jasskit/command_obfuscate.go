package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jasskit/jasskit/formatter"
	"github.com/jasskit/jasskit/obfuscator"
)

// ObfuscateCmd represents the obfuscate command
type ObfuscateCmd struct {
	Input     string `arg:"" help:"Input script ('-' for stdin)"`
	Output    string `short:"o" help:"Output file (default: stdout)"`
	Map       string `help:"Write the rename map to this YAML file"`
	SharedMap string `help:"Reuse names from a rename map written by an earlier run"`
}

// Run executes the obfuscate command
func (cmd *ObfuscateCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	src, err := ctx.readInput(cmd.Input)
	if err != nil {
		return err
	}

	unit, err := parseScript(cmd.Input, src)
	if err != nil {
		return err
	}

	sharedPath := cmd.SharedMap
	if sharedPath == "" {
		sharedPath = config.Obfuscation.SharedMap
	}

	shared, err := loadRenameMap(sharedPath)
	if err != nil {
		return err
	}

	obfuscated, renameMap, err := obfuscator.NewContext(config.Obfuscation.Options(shared)...).Obfuscate(unit)
	if err != nil {
		return err
	}

	ctx.verbosef("Renamed %d symbols", renameMap.Len())

	opts, err := config.Render.Options()
	if err != nil {
		return err
	}

	if err := ctx.writeOutput(cmd.Output, []byte(formatter.Render(obfuscated, opts))); err != nil {
		return err
	}

	mapPath := cmd.Map
	if mapPath == "" {
		mapPath = config.Obfuscation.MapFile
	}

	return saveRenameMap(ctx, mapPath, renameMap)
}

// loadRenameMap reads a rename map. An empty path means no map.
func loadRenameMap(path string) (*obfuscator.RenameMap, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rename map: %w", err)
	}
	defer file.Close()

	return obfuscator.LoadRenameMap(file)
}

// saveRenameMap writes m to path unless path is empty.
func saveRenameMap(ctx *Context, path string, m *obfuscator.RenameMap) error {
	if path == "" || m == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return err
	}

	if err := ctx.writeOutput(path, buf.Bytes()); err != nil {
		return err
	}

	ctx.verbosef("Wrote rename map: %s", path)

	return nil
}
