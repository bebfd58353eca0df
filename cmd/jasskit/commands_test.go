package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"

	"github.com/jasskit/jasskit"
	"github.com/jasskit/jasskit/script"
)

type testEnv struct {
	dir    string
	ctx    *Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, config string) *testEnv {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	configPath := filepath.Join(dir, "jasskit.yaml")
	if config != "" {
		assert.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))
	}

	env := &testEnv{dir: dir, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	env.ctx = &Context{
		Config: configPath,
		ctx:    context.Background(),
		stdin:  strings.NewReader(""),
		stdout: env.stdout,
		stderr: env.stderr,
	}

	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(e.dir, name)
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (e *testEnv) read(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	return string(data)
}

const (
	unformatted = "function f takes integer a returns nothing\nif a==1 then\ncall g(a)\nendif\nendfunction"
	formatted   = "function f takes integer a returns nothing\n\tif a == 1 then\n\t\tcall g(a)\n\tendif\nendfunction\n"
)

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t, "")

	assert.NoError(t, (&VersionCmd{}).Run(env.ctx))
	assert.Equal(t, "jasskit "+version+"\n", env.stdout.String())
}

func TestFormatCmd(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		env := newTestEnv(t, "")
		env.ctx.stdin = strings.NewReader(unformatted)

		assert.NoError(t, (&FormatCmd{}).Run(env.ctx))
		assert.Equal(t, formatted, env.stdout.String())
	})

	t.Run("spaces from config", func(t *testing.T) {
		env := newTestEnv(t, "render:\n  indent: spaces\n  indent_size: 2\n")
		env.ctx.stdin = strings.NewReader(unformatted)

		assert.NoError(t, (&FormatCmd{}).Run(env.ctx))
		assert.Contains(t, env.stdout.String(), "\n  if a == 1 then\n    call g(a)\n")
	})

	t.Run("write and check", func(t *testing.T) {
		env := newTestEnv(t, "")
		path := env.write(t, "war3map.j", unformatted)

		err := (&FormatCmd{Input: path, Check: true}).Run(env.ctx)
		assert.IsError(t, err, jasskit.ErrNotFormatted)
		assert.Contains(t, env.stderr.String(), "is not formatted")

		assert.NoError(t, (&FormatCmd{Input: path, Write: true}).Run(env.ctx))
		assert.Equal(t, formatted, env.read(t, path))
		assert.NoError(t, (&FormatCmd{Input: path, Check: true}).Run(env.ctx))
	})

	t.Run("diff", func(t *testing.T) {
		env := newTestEnv(t, "")
		path := env.write(t, "war3map.j", unformatted)

		assert.NoError(t, (&FormatCmd{Input: path, Diff: true}).Run(env.ctx))
		assert.Contains(t, env.stdout.String(), "-if a==1 then\n+\tif a == 1 then\n")
		assert.Equal(t, unformatted, env.read(t, path))
	})

	t.Run("markdown", func(t *testing.T) {
		env := newTestEnv(t, "")
		path := env.write(t, "README.md", "# Title\n\n```jass\n"+unformatted+"\n```\n")

		assert.NoError(t, (&FormatCmd{Input: path}).Run(env.ctx))
		assert.Equal(t, "# Title\n\n```jass\n"+formatted+"```\n", env.stdout.String())
	})

	t.Run("directory", func(t *testing.T) {
		env := newTestEnv(t, "")
		a := env.write(t, "src/a.j", unformatted)
		b := env.write(t, "src/lib/b.j", unformatted)
		env.write(t, "src/notes.txt", "not a script")

		assert.NoError(t, (&FormatCmd{Input: filepath.Join(env.dir, "src"), Write: true}).Run(env.ctx))
		assert.Equal(t, formatted, env.read(t, a))
		assert.Equal(t, formatted, env.read(t, b))
	})

	t.Run("directory with syntax error", func(t *testing.T) {
		env := newTestEnv(t, "")
		env.write(t, "src/a.j", "function f takes nothing returns nothing\n")

		err := (&FormatCmd{Input: filepath.Join(env.dir, "src"), Write: true}).Run(env.ctx)
		assert.IsError(t, err, ErrFormattingErrors)
		assert.Contains(t, env.stderr.String(), "Error formatting")
	})

	t.Run("empty directory", func(t *testing.T) {
		env := newTestEnv(t, "")
		assert.NoError(t, os.Mkdir(filepath.Join(env.dir, "empty"), 0o755))

		err := (&FormatCmd{Input: filepath.Join(env.dir, "empty")}).Run(env.ctx)
		assert.IsError(t, err, jasskit.ErrNoInputFiles)
	})

	t.Run("unsupported file", func(t *testing.T) {
		env := newTestEnv(t, "")
		path := env.write(t, "notes.txt", "text")

		err := (&FormatCmd{Input: path}).Run(env.ctx)
		assert.IsError(t, err, jasskit.ErrUnsupportedFileType)
	})
}

func TestCheckCmd(t *testing.T) {
	env := newTestEnv(t, "")
	good := env.write(t, "good.j", formatted)
	bad := env.write(t, "bad.j", "function f takes nothing returns nothing\nset = 1\nendfunction\n")

	t.Run("clean files", func(t *testing.T) {
		env.stdout.Reset()
		assert.NoError(t, (&CheckCmd{Files: []string{good}, Format: "text"}).Run(env.ctx))
		assert.Equal(t, "", env.stdout.String())
	})

	t.Run("text", func(t *testing.T) {
		env.stdout.Reset()
		err := (&CheckCmd{Files: []string{good, bad}, Format: "text"}).Run(env.ctx)
		assert.IsError(t, err, ErrCheckFailed)
		assert.Contains(t, env.stdout.String(), bad+":2:")
		assert.Contains(t, env.stdout.String(), ": error: ")
		assert.NotContains(t, env.stdout.String(), good)
	})

	t.Run("checkstyle", func(t *testing.T) {
		env.stdout.Reset()
		err := (&CheckCmd{Files: []string{good, bad}, Format: "checkstyle"}).Run(env.ctx)
		assert.IsError(t, err, ErrCheckFailed)

		out := env.stdout.String()
		assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, out, `<checkstyle version="4.3">`)
		assert.Contains(t, out, fmt.Sprintf(`<file name="%s"/>`, good))
		assert.Contains(t, out, `line="2"`)
		assert.Contains(t, out, `severity="error"`)
	})

	t.Run("missing file", func(t *testing.T) {
		err := (&CheckCmd{Files: []string{filepath.Join(env.dir, "missing.j")}}).Run(env.ctx)
		assert.IsError(t, err, os.ErrNotExist)
	})

	t.Run("no files", func(t *testing.T) {
		err := (&CheckCmd{}).Run(env.ctx)
		assert.IsError(t, err, jasskit.ErrNoInputFiles)
	})
}

const heroScript = `globals
	integer udg_Score = 0
endglobals

function AddScore takes integer amount returns nothing
	set udg_Score = udg_Score + amount
endfunction

function main takes nothing returns nothing
	call AddScore(10)
endfunction
`

func TestObfuscateCmd(t *testing.T) {
	env := newTestEnv(t, "")
	input := env.write(t, "war3map.j", heroScript)
	output := filepath.Join(env.dir, "out", "war3map.j")
	mapFile := filepath.Join(env.dir, "rename.yaml")

	assert.NoError(t, (&ObfuscateCmd{Input: input, Output: output, Map: mapFile}).Run(env.ctx))

	assert.Equal(t, `globals
	integer a = 0
endglobals

function b takes integer c returns nothing
	set a = a + c
endfunction

function main takes nothing returns nothing
	call b(10)
endfunction
`, env.read(t, output))
	assert.Equal(t, "symbols:\n  udg_Score: a\n  AddScore: b\nscopes:\n  AddScore:\n    amount: c\n", env.read(t, mapFile))

	t.Run("shared map", func(t *testing.T) {
		env.stdout.Reset()
		env.ctx.stdin = strings.NewReader("function Extra takes nothing returns nothing\ncall AddScore(1)\nendfunction\n")

		assert.NoError(t, (&ObfuscateCmd{Input: "-", SharedMap: mapFile}).Run(env.ctx))
		assert.Contains(t, env.stdout.String(), "call b(1)")
		assert.NotContains(t, env.stdout.String(), "Extra")
	})

	t.Run("syntax error", func(t *testing.T) {
		bad := env.write(t, "bad.j", "function f takes nothing returns nothing\n")

		err := (&ObfuscateCmd{Input: bad}).Run(env.ctx)
		assert.IsError(t, err, jasskit.ErrSyntax)
	})
}

func TestTranspileCmd(t *testing.T) {
	env := newTestEnv(t, "transpile:\n  package: maps\n")
	lib := env.write(t, "common.j", "type unit extends handle\nnative GetUnitX takes unit u returns real\n")
	input := env.write(t, "war3map.j", "function UnitX takes unit u returns real\nreturn GetUnitX(u)\nendfunction\n")

	assert.NoError(t, (&TranspileCmd{Lib: []string{lib}, Input: input}).Run(env.ctx))

	out := env.stdout.String()
	assert.True(t, strings.HasPrefix(out, "// Code generated by jasskit. DO NOT EDIT.\n"))
	assert.Contains(t, out, "package maps\n")
	assert.Contains(t, out, "func UnitX(u unit) float32")
	assert.Contains(t, out, "return GetUnitX(u)")
	assert.NotContains(t, out, "var GetUnitX")

	t.Run("flags override config", func(t *testing.T) {
		env.stdout.Reset()
		assert.NoError(t, (&TranspileCmd{Lib: []string{lib}, Input: input, Package: "script", Export: true}).Run(env.ctx))
		assert.Contains(t, env.stdout.String(), "package script\n")
	})

	t.Run("unknown library", func(t *testing.T) {
		err := (&TranspileCmd{Lib: []string{filepath.Join(env.dir, "missing.j")}, Input: input}).Run(env.ctx)
		assert.IsError(t, err, os.ErrNotExist)
	})
}

func TestBuildCmd(t *testing.T) {
	env := newTestEnv(t, "")
	env.write(t, "src/war3map.j", "//! import \"lib/score.j\"\n//! if DEBUG\nfunction debugInit takes nothing returns nothing\nendfunction\n//! endif\nfunction main takes nothing returns nothing\ncall AddScore(1)\nendfunction\n")
	env.write(t, "src/lib/score.j", "function AddScore takes integer amount returns nothing\nendfunction\n")

	output := filepath.Join(env.dir, "build", "war3map.j")
	manifestPath := filepath.Join(env.dir, "build", "manifest.yaml")
	mapFile := filepath.Join(env.dir, "build", "rename.yaml")
	env.write(t, "jasskit.yaml", fmt.Sprintf(`
obfuscation:
  enabled: true
  map_file: %q
build:
  source_dir: %q
  output: %q
  manifest: %q
  defines:
    DEBUG: false
`, mapFile, filepath.Join(env.dir, "src"), output, manifestPath))

	assert.NoError(t, (&BuildCmd{}).Run(env.ctx))

	assert.Equal(t, "function a takes integer b returns nothing\nendfunction\n\nfunction main takes nothing returns nothing\n\tcall a(1)\nendfunction\n", env.read(t, output))
	assert.Contains(t, env.read(t, mapFile), "AddScore: a")

	file, err := os.Open(manifestPath)
	assert.NoError(t, err)
	defer file.Close()

	manifest, err := script.ReadManifest(file)
	assert.NoError(t, err)
	assert.Equal(t, "war3map.j", manifest.Entry)
	assert.Equal(t, []string{"war3map.j", "lib/score.j"}, manifest.Files)
	assert.True(t, manifest.Obfuscated)
	assert.Equal(t, 2, manifest.Symbols)

	t.Run("syntax error", func(t *testing.T) {
		env.write(t, "src/broken.j", "function main takes nothing returns nothing\n")
		env.stderr.Reset()

		err := (&BuildCmd{Entry: "broken.j"}).Run(env.ctx)
		assert.IsError(t, err, jasskit.ErrSyntax)
		assert.Contains(t, env.stderr.String(), "broken.j:")
	})
}
