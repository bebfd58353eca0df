package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/jasskit/jasskit"
)

const version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newContext(ctx context.Context) *Context {
	return &Context{
		ctx:    ctx,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// loadConfig loads the configuration selected by --config.
func (c *Context) loadConfig() (*jasskit.Config, error) {
	config, err := jasskit.LoadConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// verbosef prints progress when --verbose is set and --quiet is not.
func (c *Context) verbosef(format string, args ...any) {
	if c.Verbose && !c.Quiet {
		color.New(color.FgBlue).Fprintf(c.stderr, format+"\n", args...)
	}
}

// infof prints a status line unless --quiet is set.
func (c *Context) infof(format string, args ...any) {
	if !c.Quiet {
		color.New(color.FgGreen).Fprintf(c.stderr, format+"\n", args...)
	}
}

// CLI represents the command-line interface
var CLI struct {
	Config    string       `help:"Configuration file path" default:"jasskit.yaml"`
	Verbose   bool         `help:"Enable verbose output" short:"v"`
	Quiet     bool         `help:"Suppress output" short:"q"`
	NoColor   bool         `help:"Disable colored output"`
	Format    FormatCmd    `cmd:"" help:"Format script files"`
	Check     CheckCmd     `cmd:"" help:"Report syntax errors in script files"`
	Obfuscate ObfuscateCmd `cmd:"" help:"Rename script symbols to short names"`
	Transpile TranspileCmd `cmd:"" help:"Convert a script to Go source"`
	Build     BuildCmd     `cmd:"" help:"Merge, check and render a map script"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.stdout, "jasskit %s\n", version)
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("jasskit"),
		kong.Description("Format, check, obfuscate, transpile and build JASS scripts."),
		kong.UsageOnError(),
	)

	if CLI.NoColor {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := newContext(ctx)
	appCtx.Config = CLI.Config
	appCtx.Verbose = CLI.Verbose
	appCtx.Quiet = CLI.Quiet

	err := kctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
