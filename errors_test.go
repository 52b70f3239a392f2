// errors_test.go
package mica

import (
	"strings"
	"testing"
)

func TestWrapParseErrorRendersCaret(t *testing.T) {
	src := "var x = 1;\nprint (1 + 2;\nprint x;"
	_, err := ParseSource(src)
	if err == nil {
		t.Fatal("want parse error")
	}
	msg := WrapErrorWithSource(err, src).Error()

	if !strings.Contains(msg, "PARSE ERROR at 2:13") {
		t.Fatalf("want header with position, got:\n%s", msg)
	}
	if !strings.Contains(msg, "   2 | print (1 + 2;") {
		t.Fatalf("want numbered source line, got:\n%s", msg)
	}
	// Caret under column 13 (the ';' that should have been ')').
	if !strings.Contains(msg, "     | "+strings.Repeat(" ", 12)+"^") {
		t.Fatalf("caret misplaced, got:\n%s", msg)
	}
	// One line of context on each side.
	if !strings.Contains(msg, "   1 | var x = 1;") || !strings.Contains(msg, "   3 | print x;") {
		t.Fatalf("want surrounding context, got:\n%s", msg)
	}
}

func TestWrapRuntimeError(t *testing.T) {
	src := "var a = 1;\nprint missing;"
	_, err := tryRun(src)
	msg := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(msg, "RUNTIME ERROR at 2:7") || !strings.Contains(msg, "missing") {
		t.Fatalf("bad runtime snippet:\n%s", msg)
	}
}

func TestWrapInterpreterError(t *testing.T) {
	src := `1 + "a";`
	_, err := tryRun(src)
	msg := WrapErrorWithSource(err, src).Error()
	if !strings.HasPrefix(msg, "TYPE ERROR at 1:3") {
		t.Fatalf("bad type-error snippet:\n%s", msg)
	}
}

func TestWrapLexError(t *testing.T) {
	src := "var s = \"open"
	_, err := ParseSource(src)
	msg := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(msg, "LEXICAL ERROR") || !strings.Contains(msg, "unterminated string") {
		t.Fatalf("bad lex snippet:\n%s", msg)
	}
}

func TestWrapUnknownErrorPassesThrough(t *testing.T) {
	orig := &IncompleteError{Msg: "x"}
	if got := WrapErrorWithSource(orig, "src"); got != error(orig) {
		t.Fatalf("unknown kinds must pass through, got %v", got)
	}
}

func TestParseErrorListRendersEachDiagnostic(t *testing.T) {
	src := "var = 1;\nvar = 2;"
	_, err := ParseSource(src)
	list, ok := err.(*ParseErrorList)
	if !ok || len(list.Errs) != 2 {
		t.Fatalf("want 2 diagnostics, got %v", err)
	}
	msg := WrapErrorWithSource(list, src).Error()
	if strings.Count(msg, "PARSE ERROR") != 2 {
		t.Fatalf("want one snippet per diagnostic:\n%s", msg)
	}
}

func TestSnippetClampsOutOfRangePositions(t *testing.T) {
	got := snippet("one line", "PARSE ERROR", 99, 99, "msg")
	if !strings.Contains(got, "   1 | one line") {
		t.Fatalf("positions must clamp, got:\n%s", got)
	}
	// Empty source must not panic either.
	_ = snippet("", "PARSE ERROR", 1, 1, "msg")
}
