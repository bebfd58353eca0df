package jasskit

import (
	"fmt"
	"go/token"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/jasskit/jasskit/formatter"
	"github.com/jasskit/jasskit/obfuscator"
	"github.com/jasskit/jasskit/transpiler"
)

// Config represents the jasskit.yaml configuration
type Config struct {
	Render      RenderConfig      `yaml:"render"`
	Transpile   TranspileConfig   `yaml:"transpile"`
	Obfuscation ObfuscationConfig `yaml:"obfuscation"`
	Build       BuildConfig       `yaml:"build"`
}

// RenderConfig represents script formatting settings
type RenderConfig struct {
	Indent           string `yaml:"indent"` // tabs or spaces
	IndentSize       int    `yaml:"indent_size"`
	LineEnding       string `yaml:"line_ending"` // lf or crlf
	PreserveComments *bool  `yaml:"preserve_comments"`
	NullGuards       bool   `yaml:"null_guards"`
}

// TranspileConfig represents Go code generation settings
type TranspileConfig struct {
	Package       string   `yaml:"package"`
	RuntimeImport string   `yaml:"runtime_import"`
	ExportNames   bool     `yaml:"export_names"`
	KeepDebug     bool     `yaml:"keep_debug"`
	Libraries     []string `yaml:"libraries"`
}

// ObfuscationConfig represents rename pass settings
type ObfuscationConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Prefix         string   `yaml:"prefix"`
	Reserved       []string `yaml:"reserved"`
	DynamicCallers []string `yaml:"dynamic_callers"`
	MinifyLiterals bool     `yaml:"minify_literals"`
	MapFile        string   `yaml:"map_file"`
	SharedMap      string   `yaml:"shared_map"`
}

// BuildConfig represents script build settings
type BuildConfig struct {
	SourceDir string         `yaml:"source_dir"`
	Entry     string         `yaml:"entry"`
	Output    string         `yaml:"output"`
	Manifest  string         `yaml:"manifest"`
	Defines   map[string]any `yaml:"defines"`
}

// Options converts the render section into formatter options.
func (c RenderConfig) Options() (formatter.Options, error) {
	opts := formatter.DefaultOptions()

	indent, err := formatter.ParseIndentStyle(c.Indent)
	if err != nil {
		return opts, err
	}
	lineEnding, err := formatter.ParseLineEnding(c.LineEnding)
	if err != nil {
		return opts, err
	}

	opts.Indent = indent
	opts.LineEnding = lineEnding
	if c.IndentSize > 0 {
		opts.IndentSize = c.IndentSize
	}
	if c.PreserveComments != nil {
		opts.PreserveComments = *c.PreserveComments
	}
	opts.NullGuards = c.NullGuards
	return opts, nil
}

// Options converts the transpile section into transpiler options.
func (c TranspileConfig) Options() []transpiler.Option {
	opts := []transpiler.Option{
		transpiler.WithDebugStatements(c.KeepDebug),
		transpiler.WithExportedNames(c.ExportNames),
	}
	if c.Package != "" {
		opts = append(opts, transpiler.WithPackageName(c.Package))
	}
	if c.RuntimeImport != "" {
		opts = append(opts, transpiler.WithRuntimeImport(c.RuntimeImport))
	}
	return opts
}

// Options converts the obfuscation section into obfuscator options.
// shared may be nil.
func (c ObfuscationConfig) Options(shared *obfuscator.RenameMap) []obfuscator.Option {
	opts := []obfuscator.Option{
		obfuscator.WithReserved(c.Reserved...),
		obfuscator.WithMinifyLiterals(c.MinifyLiterals),
	}
	if c.Prefix != "" {
		opts = append(opts, obfuscator.WithPrefix(c.Prefix))
	}
	if len(c.DynamicCallers) > 0 {
		opts = append(opts, obfuscator.WithDynamicCallers(c.DynamicCallers...))
	}
	if shared != nil {
		opts = append(opts, obfuscator.WithSharedMap(shared))
	}
	return opts
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if _, err := formatter.ParseIndentStyle(config.Render.Indent); err != nil {
		return fmt.Errorf("%w: render.indent '%s': must be one of tabs, spaces", ErrConfigValidation, config.Render.Indent)
	}

	if _, err := formatter.ParseLineEnding(config.Render.LineEnding); err != nil {
		return fmt.Errorf("%w: render.line_ending '%s': must be one of lf, crlf", ErrConfigValidation, config.Render.LineEnding)
	}

	if config.Render.IndentSize < 0 || config.Render.IndentSize > 16 {
		return fmt.Errorf("%w: render.indent_size must be between 0 and 16, got %d", ErrConfigValidation, config.Render.IndentSize)
	}

	if config.Transpile.Package != "" && (!token.IsIdentifier(config.Transpile.Package) || token.IsKeyword(config.Transpile.Package)) {
		return fmt.Errorf("%w: transpile.package '%s' is not a valid Go package name", ErrConfigValidation, config.Transpile.Package)
	}

	if config.Obfuscation.Prefix != "" && !identifierPattern.MatchString(config.Obfuscation.Prefix) {
		return fmt.Errorf("%w: obfuscation.prefix '%s' must start with a letter and contain only letters, digits and underscores", ErrConfigValidation, config.Obfuscation.Prefix)
	}

	for i, name := range config.Obfuscation.Reserved {
		if name == "" {
			return fmt.Errorf("%w: obfuscation.reserved[%d]: name is required", ErrConfigValidation, i)
		}
	}

	for i, name := range config.Obfuscation.DynamicCallers {
		if name == "" {
			return fmt.Errorf("%w: obfuscation.dynamic_callers[%d]: name is required", ErrConfigValidation, i)
		}
	}

	for name := range config.Build.Defines {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("%w: build.defines key '%s' is not a valid identifier", ErrConfigValidation, name)
		}
	}

	return nil
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Render.Indent == "" {
		config.Render.Indent = "tabs"
	}

	if config.Render.IndentSize == 0 {
		config.Render.IndentSize = 4
	}

	if config.Render.LineEnding == "" {
		config.Render.LineEnding = "lf"
	}

	if config.Render.PreserveComments == nil {
		preserve := true
		config.Render.PreserveComments = &preserve
	}

	if config.Transpile.Package == "" {
		config.Transpile.Package = transpiler.DefaultPackageName
	}

	if config.Transpile.RuntimeImport == "" {
		config.Transpile.RuntimeImport = transpiler.DefaultRuntimeImport
	}

	if config.Build.SourceDir == "" {
		config.Build.SourceDir = "."
	}

	if config.Build.Entry == "" {
		config.Build.Entry = "war3map.j"
	}

	if config.Build.Output == "" {
		config.Build.Output = "./build/war3map.j"
	}

	if config.Build.Manifest == "" {
		config.Build.Manifest = "./build/manifest.yaml"
	}

	if config.Build.Defines == nil {
		config.Build.Defines = make(map[string]any)
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvPattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return lookupEnv(match, match[2:len(match)-1])
	})

	return plainEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return lookupEnv(match, match[1:])
	})
}

// lookupEnv returns the value of name, or match when name is unset.
func lookupEnv(match, name string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	return match
}

// expandConfigEnvVars expands environment variables in path fields
func expandConfigEnvVars(config *Config) {
	for i, lib := range config.Transpile.Libraries {
		config.Transpile.Libraries[i] = expandEnvVars(lib)
	}

	config.Obfuscation.MapFile = expandEnvVars(config.Obfuscation.MapFile)
	config.Obfuscation.SharedMap = expandEnvVars(config.Obfuscation.SharedMap)
	config.Build.SourceDir = expandEnvVars(config.Build.SourceDir)
	config.Build.Entry = expandEnvVars(config.Build.Entry)
	config.Build.Output = expandEnvVars(config.Build.Output)
	config.Build.Manifest = expandEnvVars(config.Build.Manifest)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
