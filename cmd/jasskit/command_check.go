package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/beevik/etree"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/jasskit/jasskit"
	"github.com/jasskit/jasskit/parser"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Files  []string `arg:"" help:"Script files to check" type:"path"`
	Format string   `help:"Report format" enum:"text,checkstyle" default:"text"`
}

// fileReport holds the diagnostics of one file
type fileReport struct {
	Name        string
	Diagnostics []parser.Diagnostic
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	if len(cmd.Files) == 0 {
		return jasskit.ErrNoInputFiles
	}

	reports := make([]fileReport, len(cmd.Files))

	g, gctx := errgroup.WithContext(ctx.ctx)
	g.SetLimit(runtime.NumCPU())

	for i, name := range cmd.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src, err := ctx.readInput(name)
			if err != nil {
				return err
			}

			_, diagnostics := parser.ParseString(src)
			reports[i] = fileReport{Name: name, Diagnostics: diagnostics}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	switch cmd.Format {
	case "checkstyle":
		if err := writeCheckstyle(ctx.stdout, reports); err != nil {
			return err
		}
	case "text", "":
		writeText(ctx.stdout, reports)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, cmd.Format)
	}

	errorCount := 0
	for _, report := range reports {
		for _, d := range report.Diagnostics {
			if d.Severity >= parser.ERROR {
				errorCount++
			}
		}
	}

	ctx.verbosef("Checked %d files", len(reports))

	if errorCount > 0 {
		return fmt.Errorf("%w: %d errors", ErrCheckFailed, errorCount)
	}

	ctx.infof("No problems found")

	return nil
}

// writeText prints one colored line per diagnostic
func writeText(w io.Writer, reports []fileReport) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	for _, report := range reports {
		for _, d := range report.Diagnostics {
			fmt.Fprintf(w, "%s:%s: ", report.Name, d.Position)

			severity := yellow
			if d.Severity >= parser.ERROR {
				severity = red
			}
			severity.Fprint(w, d.Severity.String())

			fmt.Fprintf(w, ": %s\n", d.Message)
		}
	}
}

// writeCheckstyle prints the reports as Checkstyle XML
func writeCheckstyle(w io.Writer, reports []fileReport) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	for _, report := range reports {
		file := root.CreateElement("file")
		file.CreateAttr("name", report.Name)

		for _, d := range report.Diagnostics {
			e := file.CreateElement("error")
			e.CreateAttr("line", fmt.Sprint(d.Position.Line))
			e.CreateAttr("column", fmt.Sprint(d.Position.Column))
			e.CreateAttr("severity", checkstyleSeverity(d.Severity))
			e.CreateAttr("message", d.Message)
			e.CreateAttr("source", "jasskit")
		}
	}

	doc.Indent(2)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func checkstyleSeverity(s parser.Severity) string {
	if s >= parser.ERROR {
		return "error"
	}
	return "warning"
}
