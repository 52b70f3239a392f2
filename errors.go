// errors.go — error taxonomy and caret-snippet rendering.
//
// Three failure kinds flow through the pipeline, each its own type so callers
// (and tests) can tell the causes apart:
//
//   - *LexError         — malformed source text, from the scanner.
//   - *ParseError       — malformed syntax, from the parser. The parser
//     recovers via synchronize and accumulates these into *ParseErrorList,
//     so one broken statement yields one diagnostic, not a cascade.
//   - *RuntimeError     — name resolution failure (undefined variable).
//   - *InterpreterError — well-formed program, bad runtime types: operator
//     applied to the wrong kinds, calling a non-callable, arity mismatch,
//     call-depth exhaustion.
//
// All kinds propagate outward unchanged through evaluation; nothing converts
// them to default values. WrapErrorWithSource turns any of them into a
// readable snippet with a caret under the offending column:
//
//	PARSE ERROR at 3:12: expect ')' after expression
//
//	   2 | var x = (1 + 2
//	   3 |              ;
//	     |             ^
//	   4 | print x;
//
// Errors of other types are returned untouched.
package mica

import (
	"fmt"
	"strings"
)

// LexError is a scanning failure at a 1-based source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError is a syntax failure. Token is the offending token and Pos the
// parser cursor position within the token stream when the error was raised.
type ParseError struct {
	Token Token
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s (got %s)", e.Token.Line, e.Token.Col, e.Msg, e.Token)
}

// ParseErrorList aggregates every diagnostic produced during one parse.
// Parsing continues past a broken statement (panic-mode recovery), so a
// single run can report several of these. It is itself an error.
type ParseErrorList struct {
	Errs []*ParseError
}

func (l *ParseErrorList) Error() string {
	if len(l.Errs) == 1 {
		return l.Errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d parse errors:", len(l.Errs))
	for _, e := range l.Errs {
		b.WriteString("\n")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual diagnostics to errors.Is/As.
func (l *ParseErrorList) Unwrap() []error {
	out := make([]error, len(l.Errs))
	for i, e := range l.Errs {
		out[i] = e
	}
	return out
}

// IncompleteError marks input that failed only because it ended too soon:
// an expected token was missing at EOF while parsing interactively. REPLs
// use it to prompt for a continuation line instead of reporting a hard error.
type IncompleteError struct {
	Msg string
}

func (e *IncompleteError) Error() string { return "incomplete input: " + e.Msg }

// IsIncomplete reports whether err marks input that may become valid with
// more lines.
func IsIncomplete(err error) bool {
	_, ok := err.(*IncompleteError)
	return ok
}

// RuntimeError is an undefined-variable failure (read or assignment target).
// Lexeme is the identifier text that failed to resolve.
type RuntimeError struct {
	Lexeme string
	Line   int
	Col    int
	Msg    string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// InterpreterError is a runtime type or arity failure. Token points at the
// operator, call site, or value expression that triggered it.
type InterpreterError struct {
	Token Token
	Msg   string
}

func (e *InterpreterError) Error() string {
	return fmt.Sprintf("TYPE ERROR at %d:%d: %s", e.Token.Line, e.Token.Col, e.Msg)
}

/* ===========================
   Caret-snippet rendering
   =========================== */

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src, when err is one of the taxonomy kinds above. Any other
// error is returned unchanged. A *ParseErrorList renders one snippet per
// diagnostic.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", e.Token.Line, e.Token.Col, e.Msg))
	case *ParseErrorList:
		parts := make([]string, 0, len(e.Errs))
		for _, pe := range e.Errs {
			parts = append(parts, snippet(src, "PARSE ERROR", pe.Token.Line, pe.Token.Col, pe.Msg))
		}
		return fmt.Errorf("%s", strings.Join(parts, "\n\n"))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", e.Line, e.Col, e.Msg))
	case *InterpreterError:
		return fmt.Errorf("%s", snippet(src, "TYPE ERROR", e.Token.Line, e.Token.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds a Python-like context block with a header and a caret.
// It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]
	if col > len(lineTxt)+1 {
		col = len(lineTxt) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) && strings.TrimSpace(lines[line]) != "" {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
