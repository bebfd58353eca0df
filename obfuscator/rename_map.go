package obfuscator

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Symbol identifies a declared name. Scope is empty for unit-level
// names (types, globals, functions) and holds the enclosing function's
// original name for parameters and locals.
type Symbol struct {
	Scope string
	Name  string
}

func (s Symbol) String() string {
	if s.Scope == "" {
		return s.Name
	}
	return s.Scope + "." + s.Name
}

// Entry is one renamed symbol.
type Entry struct {
	Symbol
	Replacement string
}

// RenameMap records original-to-obfuscated names in declaration order.
// A RenameMap is not safe for concurrent writes; a finished map may be
// shared read-only.
type RenameMap struct {
	entries []Entry
	index   map[Symbol]int
}

// NewRenameMap returns an empty map.
func NewRenameMap() *RenameMap {
	return &RenameMap{index: map[Symbol]int{}}
}

// Lookup returns the replacement for name declared in scope.
func (m *RenameMap) Lookup(scope, name string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[Symbol{Scope: scope, Name: name}]
	if !ok {
		return "", false
	}
	return m.entries[i].Replacement, true
}

// Entries returns a copy of all entries in insertion order.
func (m *RenameMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Len returns the number of entries.
func (m *RenameMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Replacements returns the set of replacement names.
func (m *RenameMap) Replacements() map[string]Symbol {
	result := map[string]Symbol{}
	if m == nil {
		return result
	}
	for _, entry := range m.entries {
		result[entry.Replacement] = entry.Symbol
	}
	return result
}

// add keeps the first replacement recorded for a symbol.
func (m *RenameMap) add(symbol Symbol, replacement string) string {
	if i, ok := m.index[symbol]; ok {
		return m.entries[i].Replacement
	}
	m.index[symbol] = len(m.entries)
	m.entries = append(m.entries, Entry{Symbol: symbol, Replacement: replacement})
	return replacement
}

// Validate checks that no two symbols share a replacement.
func (m *RenameMap) Validate() error {
	seen := make(map[string]Symbol, m.Len())
	for _, entry := range m.Entries() {
		if first, ok := seen[entry.Replacement]; ok {
			return &CollisionError{Replacement: entry.Replacement, First: first, Second: entry.Symbol}
		}
		seen[entry.Replacement] = entry.Symbol
	}
	return nil
}

// Save writes the map as YAML:
//
//	symbols:
//	  MyGlobal: a
//	scopes:
//	  MyFunction:
//	    count: c
//
// Keys keep their insertion order.
func (m *RenameMap) Save(w io.Writer) error {
	symbols := &yaml.Node{Kind: yaml.MappingNode}
	scopes := &yaml.Node{Kind: yaml.MappingNode}
	scopeNodes := map[string]*yaml.Node{}

	for _, entry := range m.Entries() {
		target := symbols
		if entry.Scope != "" {
			target = scopeNodes[entry.Scope]
			if target == nil {
				target = &yaml.Node{Kind: yaml.MappingNode}
				scopeNodes[entry.Scope] = target
				scopes.Content = append(scopes.Content, scalar(entry.Scope), target)
			}
		}
		target.Content = append(target.Content, scalar(entry.Name), scalar(entry.Replacement))
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalar("symbols"), symbols)
	if len(scopes.Content) > 0 {
		root.Content = append(root.Content, scalar("scopes"), scopes)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("failed to write rename map: %w", err)
	}
	return encoder.Close()
}

// LoadRenameMap reads a map written by Save and validates it.
func LoadRenameMap(r io.Reader) (*RenameMap, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewRenameMap(), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRenameMap, err)
	}

	m := NewRenameMap()
	if len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidRenameMap, root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "symbols":
			if err := m.loadScope("", value); err != nil {
				return nil, err
			}
		case "scopes":
			if value.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: line %d: scopes must be a mapping", ErrInvalidRenameMap, value.Line)
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				if err := m.loadScope(value.Content[j].Value, value.Content[j+1]); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidRenameMap, key.Line, key.Value)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RenameMap) loadScope(scope string, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected name: replacement pairs", ErrInvalidRenameMap, node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, replacement := node.Content[i], node.Content[i+1]
		if replacement.Kind != yaml.ScalarNode || replacement.Value == "" {
			return fmt.Errorf("%w: line %d: replacement for %q must be a name", ErrInvalidRenameMap, replacement.Line, name.Value)
		}
		symbol := Symbol{Scope: scope, Name: name.Value}
		if _, ok := m.index[symbol]; ok {
			return fmt.Errorf("%w: line %d: duplicate symbol %s", ErrInvalidRenameMap, name.Line, symbol)
		}
		m.add(symbol, replacement.Value)
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
