package transpiler

import (
	"fmt"

	"github.com/jasskit/jasskit/syntax"
)

// SymbolKind classifies a unit-level declaration.
type SymbolKind int

const (
	TypeSymbol SymbolKind = iota
	GlobalSymbol
	NativeSymbol
	FunctionSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case TypeSymbol:
		return "type"
	case GlobalSymbol:
		return "global"
	case NativeSymbol:
		return "native"
	case FunctionSymbol:
		return "function"
	}
	return "unknown"
}

// Symbol describes one declaration.
//
// Type holds the base type for TypeSymbol, the variable type for
// GlobalSymbol and the return type for natives and functions, where an
// empty Type means "returns nothing".
type Symbol struct {
	Kind       SymbolKind
	Name       string
	Type       string
	Array      bool
	Constant   bool
	Parameters []string
}

// SymbolTable is the read-only result of BuildSymbols.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []*Symbol
}

// BuildSymbols collects the declarations of units in order. Later
// units may refer to anything declared by earlier ones, as a script
// refers to common.j.
func BuildSymbols(units ...*syntax.CompilationUnit) (*SymbolTable, error) {
	table := &SymbolTable{symbols: map[string]*Symbol{}}
	for _, unit := range units {
		if unit == nil {
			panic(fmt.Errorf("%w: compilation unit", syntax.ErrNilNode))
		}
		for _, decl := range unit.Declarations {
			if err := table.declare(decl); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

func (s *SymbolTable) declare(decl syntax.Declaration) error {
	switch d := decl.(type) {
	case *syntax.TypeDeclaration:
		return s.add(&Symbol{Kind: TypeSymbol, Name: d.Name.Name, Type: d.Base.Name})
	case *syntax.Globals:
		for _, member := range d.Members {
			global, ok := member.(*syntax.Global)
			if !ok {
				continue
			}
			err := s.add(&Symbol{
				Kind:     GlobalSymbol,
				Name:     global.Variable.Name.Name,
				Type:     global.Variable.Type.Name,
				Array:    global.Variable.Array,
				Constant: global.Constant,
			})
			if err != nil {
				return err
			}
		}
	case *syntax.Native:
		return s.add(signatureSymbol(NativeSymbol, d.Constant, d.Signature))
	case *syntax.Function:
		return s.add(signatureSymbol(FunctionSymbol, d.Constant, d.Signature))
	}
	return nil
}

func signatureSymbol(kind SymbolKind, constant bool, sig *syntax.FunctionSignature) *Symbol {
	symbol := &Symbol{Kind: kind, Name: sig.Name.Name, Constant: constant}
	if sig.ReturnType != nil {
		symbol.Type = sig.ReturnType.Name
	}
	for _, param := range sig.Parameters {
		symbol.Parameters = append(symbol.Parameters, param.Type.Name)
	}
	return symbol
}

func (s *SymbolTable) add(symbol *Symbol) error {
	if previous, ok := s.symbols[symbol.Name]; ok {
		return fmt.Errorf("%w: %s %q already declared as %s", ErrDuplicateSymbol, symbol.Kind, symbol.Name, previous.Kind)
	}
	s.symbols[symbol.Name] = symbol
	s.order = append(s.order, symbol)
	return nil
}

// Lookup returns the declaration called name.
func (s *SymbolTable) Lookup(name string) (*Symbol, bool) {
	symbol, ok := s.symbols[name]
	return symbol, ok
}

// Symbols returns every declaration in declaration order.
func (s *SymbolTable) Symbols() []*Symbol {
	result := make([]*Symbol, len(s.order))
	copy(result, s.order)
	return result
}

// goNames maps every unit-level name to its Go identifier.
func (s *SymbolTable) goNames(exported bool) map[string]string {
	allocator := newNameAllocator()
	allocator.allocate(GlobalsInitializer)
	names := make(map[string]string, len(s.order))
	for _, symbol := range s.order {
		name := goName(symbol.Name)
		if exported {
			name = exportName(symbol.Name)
		}
		names[symbol.Name] = allocator.allocate(name)
	}
	return names
}
