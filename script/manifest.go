package script

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/jasskit/jasskit/obfuscator"
)

// Manifest describes one build. It is written next to the output script.
type Manifest struct {
	BuildID    uuid.UUID      `yaml:"build_id"`
	Entry      string         `yaml:"entry"`
	Files      []string       `yaml:"files"`
	Obfuscated bool           `yaml:"obfuscated"`
	Symbols    int            `yaml:"symbols"` // renamed symbols
	Defines    map[string]any `yaml:"defines,omitempty"`
}

// NewManifest creates a manifest with a fresh build id. renameMap is nil
// for builds without obfuscation.
func NewManifest(entry string, files []string, renameMap *obfuscator.RenameMap, defines map[string]any) *Manifest {
	return &Manifest{
		BuildID:    uuid.New(),
		Entry:      entry,
		Files:      files,
		Obfuscated: renameMap != nil,
		Symbols:    renameMap.Len(),
		Defines:    defines,
	}
}

// Write encodes m as YAML.
func (m *Manifest) Write(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()

	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ReadManifest decodes a manifest written by Write.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r, yaml.Strict()).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return &m, nil
}
