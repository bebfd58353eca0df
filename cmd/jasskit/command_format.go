package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/jasskit/jasskit"
	"github.com/jasskit/jasskit/formatter"
)

// FormatCmd represents the format command
type FormatCmd struct {
	Input  string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Output string `short:"o" help:"Output file (default: stdout)"`
	Write  bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check  bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff   bool   `short:"d" help:"Show diff instead of rewriting files"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	config, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	opts, err := config.Render.Options()
	if err != nil {
		return err
	}

	if cmd.Input == "" {
		src, err := ctx.readInput("")
		if err != nil {
			return err
		}
		return cmd.formatSource(ctx, opts, src, "<stdin>", cmd.Output)
	}

	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if info.IsDir() {
		return cmd.formatDirectory(ctx, opts, cmd.Input)
	}

	return cmd.formatFile(ctx, opts, cmd.Input)
}

// format formats a script or, for .md files, the script blocks inside it.
func format(opts formatter.Options, src, filename string) (string, error) {
	if isMarkdownFile(filename) {
		formatted, err := formatter.NewMarkdownFormatter(opts).Format([]byte(src))
		if err != nil {
			return "", fmt.Errorf("failed to format Markdown in %s: %w", filename, err)
		}
		return string(formatted), nil
	}

	formatted, err := formatter.Format(src, opts)
	if err != nil {
		return "", fmt.Errorf("failed to format %s: %w", filename, err)
	}

	return formatted, nil
}

func (cmd *FormatCmd) formatSource(ctx *Context, opts formatter.Options, src, filename, output string) error {
	formatted, err := format(opts, src, filename)
	if err != nil {
		return err
	}

	if cmd.Check {
		if src != formatted {
			fmt.Fprintf(ctx.stderr, "%s is not formatted\n", filename)
			return jasskit.ErrNotFormatted
		}

		return nil
	}

	if cmd.Diff {
		cmd.showDiff(ctx, src, formatted, filename)
		return nil
	}

	return ctx.writeOutput(output, []byte(formatted))
}

// formatFile formats a single file
func (cmd *FormatCmd) formatFile(ctx *Context, opts formatter.Options, filename string) error {
	if !isScriptFile(filename) && !isMarkdownFile(filename) {
		return fmt.Errorf("%w: %s", jasskit.ErrUnsupportedFileType, filename)
	}

	src, err := ctx.readInput(filename)
	if err != nil {
		return err
	}

	output := cmd.Output
	if cmd.Write {
		output = filename
	}

	return cmd.formatSource(ctx, opts, src, filename, output)
}

// formatDirectory formats all script and Markdown files in a directory recursively
func (cmd *FormatCmd) formatDirectory(ctx *Context, opts formatter.Options, dirPath string) error {
	var (
		hasErrors bool
		count     int
	)

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || (!isScriptFile(path) && !isMarkdownFile(path)) {
			return nil
		}
		count++

		src, err := ctx.readInput(path)
		if err != nil {
			return err
		}

		// Directories are rewritten in place or only checked.
		output := path
		if !cmd.Write {
			output = ""
		}

		err = cmd.formatSource(ctx, opts, src, path, output)
		if err != nil {
			fmt.Fprintf(ctx.stderr, "Error formatting %s: %v\n", path, err)

			hasErrors = true

			return nil
		}

		if cmd.Write {
			ctx.verbosef("Formatted: %s", path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	if count == 0 {
		return fmt.Errorf("%w in %s", jasskit.ErrNoInputFiles, dirPath)
	}

	if hasErrors {
		return ErrFormattingErrors
	}

	return nil
}

// showDiff prints the lines that differ between original and formatted
func (cmd *FormatCmd) showDiff(ctx *Context, original, formatted, filename string) {
	if original == formatted {
		return
	}

	fmt.Fprintf(ctx.stdout, "--- %s (original)\n", filename)
	fmt.Fprintf(ctx.stdout, "+++ %s (formatted)\n", filename)

	originalLines := strings.Split(original, "\n")
	formattedLines := strings.Split(formatted, "\n")

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	for i := range max(len(originalLines), len(formattedLines)) {
		var origLine, formLine string

		if i < len(originalLines) {
			origLine = originalLines[i]
		}

		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}

		if origLine != formLine {
			if origLine != "" {
				red.Fprintf(ctx.stdout, "-%s\n", origLine)
			}

			if formLine != "" {
				green.Fprintf(ctx.stdout, "+%s\n", formLine)
			}
		}
	}
}

// Help returns help text for the format command
func (cmd *FormatCmd) Help() string {
	return `Format JASS scripts (.j) and script blocks in Markdown files (.md).

Formatting keeps every literal in its original base and only changes
layout: one statement per line, block bodies indented, single spaces
around binary operators. Indentation, line endings and comment handling
come from the render section of jasskit.yaml.

Examples:
  # Format a single file and print to stdout
  jasskit format war3map.j

  # Format a file in place
  jasskit format -w war3map.j

  # Format all files in a directory
  jasskit format -w ./src/

  # Check if files are properly formatted
  jasskit format -c ./src/

  # Format from stdin
  cat war3map.j | jasskit format`
}
