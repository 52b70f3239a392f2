// token.go — the token contract between the scanner and the parser.
//
// Tokens are immutable records. The scanner produces a flat []Token ending in
// an EOF sentinel; the parser only ever reads them. Lexeme is the raw source
// slice the token was scanned from; Literal carries the decoded payload for
// STRING and NUMBER tokens (string / float64) and is nil otherwise. Line and
// Col are 1-based and point at the first byte of the lexeme.
package mica

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Single-character punctuation
	LEFT_PAREN  // "("
	RIGHT_PAREN // ")"
	LEFT_BRACE  // "{"
	RIGHT_BRACE // "}"
	COMMA       // ","
	DOT         // "."
	MINUS       // "-"
	PLUS        // "+"
	SEMICOLON   // ";"
	SLASH       // "/"
	STAR        // "*"

	// One- or two-character operators
	BANG          // "!"
	BANG_EQUAL    // "!="
	EQUAL         // "="
	EQUAL_EQUAL   // "=="
	GREATER       // ">"
	GREATER_EQUAL // ">="
	LESS          // "<"
	LESS_EQUAL    // "<="

	// Literals & identifiers
	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	AND
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	TRUE
	VAR
	WHILE
)

var tokenNames = map[TokenType]string{
	EOF:           "EOF",
	LEFT_PAREN:    "(",
	RIGHT_PAREN:   ")",
	LEFT_BRACE:    "{",
	RIGHT_BRACE:   "}",
	COMMA:         ",",
	DOT:           ".",
	MINUS:         "-",
	PLUS:          "+",
	SEMICOLON:     ";",
	SLASH:         "/",
	STAR:          "*",
	BANG:          "!",
	BANG_EQUAL:    "!=",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	LESS:          "<",
	LESS_EQUAL:    "<=",
	IDENTIFIER:    "identifier",
	STRING:        "string",
	NUMBER:        "number",
	AND:           "and",
	CLASS:         "class",
	ELSE:          "else",
	FALSE:         "false",
	FOR:           "for",
	FUN:           "fun",
	IF:            "if",
	NIL:           "nil",
	OR:            "or",
	PRINT:         "print",
	RETURN:        "return",
	TRUE:          "true",
	VAR:           "var",
	WHILE:         "while",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for STRING/NUMBER literals
	Line    int         // 1-based
	Col     int         // 1-based
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.Lexeme)
}

// keywords map
var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}
