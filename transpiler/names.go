package transpiler

import (
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// predeclared are Go's universe-scope identifiers plus the runtime
// package name, which a generated file must not shadow.
var predeclared = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true,
	"clear": true, "close": true, "comparable": true, "complex": true,
	"complex64": true, "complex128": true, "copy": true, "delete": true,
	"error": true, "false": true, "float32": true, "float64": true,
	"imag": true, "int": true, "int8": true, "int16": true, "int32": true,
	"int64": true, "iota": true, "len": true, "make": true, "max": true,
	"min": true, "new": true, "nil": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true, "rune": true,
	"string": true, "true": true, "uint": true, "uint8": true,
	"uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"init": true, "_": true,
	runtimePackage: true,
}

// goName makes a JASS identifier safe to use as a Go identifier.
func goName(name string) string {
	if token.IsKeyword(name) || predeclared[name] {
		return name + "_"
	}
	return name
}

// exportName converts snake_case and lowerCamel names to an exported
// Go name: udg_hero becomes UdgHero, BJDebugMsg stays as it is.
func exportName(name string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		b.WriteString(caser.String(part))
	}
	exported := b.String()
	if exported == "" || !token.IsExported(exported) {
		exported = "X" + exported
	}
	return exported
}

// nameAllocator hands out unique names, appending a counter on clashes.
type nameAllocator struct {
	used map[string]bool
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{used: map[string]bool{}}
}

func (a *nameAllocator) allocate(name string) string {
	candidate := name
	for i := 2; a.used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	a.used[candidate] = true
	return candidate
}
