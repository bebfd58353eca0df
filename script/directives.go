package script

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	tok "github.com/jasskit/jasskit/tokenizer"
)

const directivePrefix = "//!"

// DirectiveKind identifies a build directive line.
type DirectiveKind int

const (
	ImportDirective DirectiveKind = iota + 1
	IfDirective
	ElseDirective
	EndIfDirective
)

func (k DirectiveKind) String() string {
	switch k {
	case ImportDirective:
		return "import"
	case IfDirective:
		return "if"
	case ElseDirective:
		return "else"
	case EndIfDirective:
		return "endif"
	}
	return "unknown"
}

// Directive is one "//!" line. Argument holds the import path or the
// condition source.
type Directive struct {
	Kind     DirectiveKind
	Argument string
	Line     int
}

func primitiveType(typeName string, types ...tok.TokenType) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func word(value string) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Type == tok.IDENTIFIER && tokens[0].Val.Value == value {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func tag(typeStr string, p ...pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Trans(pc.Seq(p...), func(pctx *pc.ParseContext[tok.Token], src []pc.Token[tok.Token]) (converted []pc.Token[tok.Token], err error) {
		if len(src) > 0 {
			src[0].Type = typeStr
		}

		return src, nil
	})
}

var (
	eos = pc.EOS[tok.Token]()

	directive = pc.Or(
		tag("import", word("import"), primitiveType("string", tok.STRING), eos),
		tag("if", primitiveType("if", tok.IF)),
		tag("else", primitiveType("else", tok.ELSE), eos),
		tag("endif", primitiveType("endif", tok.ENDIF), eos),
	)
)

func toParserToken(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], 0, len(tokens))

	for _, token := range tokens {
		if token.Type == tok.EOF || token.Type.IsTrivia() || token.Type == tok.NEWLINE {
			continue
		}
		results = append(results, pc.Token[tok.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		})
	}

	return results
}

// ParseDirective recognizes a "//!" comment line. It returns false for
// lines that are not directives and ErrInvalidDirective for directive
// lines it cannot read.
func ParseDirective(line string, lineNumber int) (Directive, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, directivePrefix) {
		return Directive{}, false, nil
	}

	body := trimmed[len(directivePrefix):]
	tokens := toParserToken(tok.All(body))
	if len(tokens) == 0 {
		return Directive{}, true, fmt.Errorf("%w at line %d: empty directive", ErrInvalidDirective, lineNumber)
	}

	pctx := pc.NewParseContext[tok.Token]()

	_, match, err := directive(pctx, tokens)
	if err != nil || len(match) == 0 {
		return Directive{}, true, fmt.Errorf("%w at line %d: %s", ErrInvalidDirective, lineNumber, strings.TrimSpace(body))
	}

	d := Directive{Line: lineNumber}
	switch match[0].Type {
	case "import":
		d.Kind = ImportDirective
		path, err := strconv.Unquote(match[1].Val.Value)
		if err != nil || path == "" {
			return Directive{}, true, fmt.Errorf("%w at line %d: bad import path %s", ErrInvalidDirective, lineNumber, match[1].Val.Value)
		}
		d.Argument = path
	case "if":
		d.Kind = IfDirective
		d.Argument = strings.TrimSpace(body[match[0].Val.End():])
		if d.Argument == "" {
			return Directive{}, true, fmt.Errorf("%w at line %d: if without condition", ErrInvalidDirective, lineNumber)
		}
	case "else":
		d.Kind = ElseDirective
	case "endif":
		d.Kind = EndIfDirective
	}

	return d, true, nil
}
