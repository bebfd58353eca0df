package tokenizer

// keywords is the fixed, case-sensitive keyword table.
var keywords = map[string]TokenType{
	"type":        TYPE,
	"extends":     EXTENDS,
	"globals":     GLOBALS,
	"endglobals":  ENDGLOBALS,
	"constant":    CONSTANT,
	"native":      NATIVE,
	"takes":       TAKES,
	"returns":     RETURNS,
	"nothing":     NOTHING,
	"function":    FUNCTION,
	"endfunction": ENDFUNCTION,
	"array":       ARRAY,
	"local":       LOCAL,
	"set":         SET,
	"call":        CALL,
	"if":          IF,
	"then":        THEN,
	"elseif":      ELSEIF,
	"else":        ELSE,
	"endif":       ENDIF,
	"loop":        LOOP,
	"endloop":     ENDLOOP,
	"exitwhen":    EXITWHEN,
	"return":      RETURN,
	"debug":       DEBUG,
	"and":         AND,
	"or":          OR,
	"not":         NOT,
	"true":        TRUE,
	"false":       FALSE,
	"null":        NULL,
}

// PrimitiveTypes are the built-in type names. They lex as identifiers.
var PrimitiveTypes = []string{"integer", "real", "boolean", "string", "handle", "code"}

// LookupKeyword returns the keyword token type for word, or IDENTIFIER.
func LookupKeyword(word string) TokenType {
	if tokenType, ok := keywords[word]; ok {
		return tokenType
	}
	return IDENTIFIER
}

// IsKeyword reports whether word is reserved by the grammar.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Keywords returns every reserved word.
func Keywords() []string {
	result := make([]string, 0, len(keywords))
	for word := range keywords {
		result = append(result, word)
	}
	return result
}
