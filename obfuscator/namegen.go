package obfuscator

const (
	leadingAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	trailingAlphabet = leadingAlphabet + "0123456789"
)

// NameGenerator produces short identifiers in a fixed order:
// a ... Z, aa ... Z9, aaa ... and so on. Every counter value maps to a
// distinct name, so two calls to Next never return the same string.
type NameGenerator struct {
	prefix string
	next   int
}

// NewNameGenerator returns a generator whose names start with prefix.
func NewNameGenerator(prefix string) *NameGenerator {
	return &NameGenerator{prefix: prefix}
}

// Next returns the next name for which skip reports false.
func (g *NameGenerator) Next(skip func(name string) bool) string {
	for {
		name := g.prefix + encodeName(g.next)
		g.next++
		if skip == nil || !skip(name) {
			return name
		}
	}
}

// Count returns how many names have been produced or skipped so far.
func (g *NameGenerator) Count() int {
	return g.next
}

// encodeName is bijective numeration with a base-52 first digit and
// base-62 digits after it.
func encodeName(n int) string {
	buf := make([]byte, 0, 4)
	buf = append(buf, leadingAlphabet[n%len(leadingAlphabet)])
	n /= len(leadingAlphabet)
	for n > 0 {
		n--
		buf = append(buf, trailingAlphabet[n%len(trailingAlphabet)])
		n /= len(trailingAlphabet)
	}
	return string(buf)
}
