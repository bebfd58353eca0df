package parser

import "strings"

// unquote strips the delimiters of a string or raw code lexeme and
// decodes its escape sequences. Unknown escapes are kept verbatim so that
// re-escaping reproduces the same value.
func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return ""
	}
	body := lexeme[1 : len(lexeme)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(body[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
