// interp_test.go
package mica

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// run interprets src with output captured; it fails the test on any error.
func run(t *testing.T, src string) string {
	t.Helper()
	out, err := tryRun(src)
	if err != nil {
		t.Fatalf("run error: %v\nsource:\n%s", err, src)
	}
	return out
}

func tryRun(src string) (string, error) {
	var buf bytes.Buffer
	ip := NewInterpreter()
	ip.Out = &buf
	err := ip.Run(src)
	return buf.String(), err
}

func wantLines(t *testing.T, got string, lines ...string) {
	t.Helper()
	want := strings.Join(lines, "\n")
	if len(lines) > 0 {
		want += "\n"
	}
	if got != want {
		t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func wantTypeError(t *testing.T, src, substr string) {
	t.Helper()
	out, err := tryRun(src)
	ie, ok := err.(*InterpreterError)
	if !ok {
		t.Fatalf("want *InterpreterError for %q, got %v", src, err)
	}
	if !strings.Contains(ie.Msg, substr) {
		t.Fatalf("want message containing %q, got %q", substr, ie.Msg)
	}
	if out != "" {
		t.Fatalf("failing statement must not print, got %q", out)
	}
}

func wantRuntimeError(t *testing.T, src, lexeme string) {
	t.Helper()
	_, err := tryRun(src)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("want *RuntimeError for %q, got %v", src, err)
	}
	if re.Lexeme != lexeme {
		t.Fatalf("want lexeme %q, got %q", lexeme, re.Lexeme)
	}
}

// --- arithmetic, comparison, equality --------------------------------------

func TestArithmetic(t *testing.T) {
	cases := []struct{ src, want string }{
		{"print 1 + 2;", "3"},
		{"print 7 - 10;", "-3"},
		{"print 3 * 4;", "12"},
		{"print 1 / 2;", "0.5"},
		{"print 10 / 4;", "2.5"},
		{"print -(3 + 2);", "-5"},
		{"print 1 + 2 * 3;", "7"},
		{"print (1 + 2) * 3;", "9"},
		{"print 0.1 + 0.2;", "0.30000000000000004"},
	}
	for _, c := range cases {
		wantLines(t, run(t, c.src), c.want)
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct{ src, want string }{
		{"print 1 < 2;", "true"},
		{"print 2 < 2;", "false"},
		{"print 2 <= 2;", "true"},
		{"print 3 > 2;", "true"},
		{"print 3 >= 4;", "false"},
	}
	for _, c := range cases {
		wantLines(t, run(t, c.src), c.want)
	}
}

func TestStringConcatenation(t *testing.T) {
	wantLines(t, run(t, `print "a" + "b";`), "ab")
	wantLines(t, run(t, `print "" + "x";`), "x")
}

func TestCrossTypeEquality(t *testing.T) {
	cases := []struct{ src, want string }{
		{"print nil == nil;", "true"},
		{`print 1 == "1";`, "false"},
		{"print 1 == 1;", "true"},
		{"print 1 != 2;", "true"},
		{`print "a" == "a";`, "true"},
		{`print "a" != "b";`, "true"},
		{"print true == true;", "true"},
		{"print true == 1;", "false"},
		{"print nil == false;", "false"},
	}
	for _, c := range cases {
		wantLines(t, run(t, c.src), c.want)
	}
}

func TestEqualityNeverTypeErrors(t *testing.T) {
	// Equality is total across kinds; only the other operators type-check.
	wantLines(t, run(t, `print "a" == 1; print nil != 0;`), "false", "true")
}

func TestArithmeticTypeErrors(t *testing.T) {
	wantTypeError(t, `1 + "a";`, "two numbers or two strings")
	wantTypeError(t, `"a" + 1;`, "two numbers or two strings")
	wantTypeError(t, `"a" - "b";`, "must be numbers")
	wantTypeError(t, `"a" < "b";`, "must be numbers")
	wantTypeError(t, `-"a";`, "must be a number")
	wantTypeError(t, `nil * 2;`, "must be numbers")
}

func TestBinaryEvaluatesLeftBeforeRight(t *testing.T) {
	// The left operand's side effect lands even when the right one fails.
	src := `
var log = "";
fun note(s, v) { log = log + s; return v; }
note("L", 1) + note("R", "oops");
`
	var buf bytes.Buffer
	ip := NewInterpreter()
	ip.Out = &buf
	err := ip.Run(src)
	if _, ok := err.(*InterpreterError); !ok {
		t.Fatalf("want type error, got %v", err)
	}
	v, gerr := ip.Globals.Get(ident("log"))
	if gerr != nil {
		t.Fatalf("log missing: %v", gerr)
	}
	if v.Data.(string) != "LR" {
		t.Fatalf("want both operands evaluated in order, log=%q", v.Data)
	}
}

// --- truthiness & logic ----------------------------------------------------

func TestTruthiness(t *testing.T) {
	cases := []struct{ src, want string }{
		{`if (0) print "t"; else print "f";`, "t"},
		{`if ("") print "t"; else print "f";`, "t"},
		{`if (nil) print "t"; else print "f";`, "f"},
		{`if (false) print "t"; else print "f";`, "f"},
		{`if (true) print "t"; else print "f";`, "t"},
		{"print !nil;", "true"},
		{"print !0;", "false"},
	}
	for _, c := range cases {
		wantLines(t, run(t, c.src), c.want)
	}
}

func TestLogicalShortCircuitReturnsOperand(t *testing.T) {
	cases := []struct{ src, want string }{
		{`print "hi" or 2;`, "hi"},
		{`print nil or "yes";`, "yes"},
		{`print nil and "unreached";`, "nil"},
		{`print 1 and 2;`, "2"},
		{`print false or false;`, "false"},
	}
	for _, c := range cases {
		wantLines(t, run(t, c.src), c.want)
	}
}

func TestShortCircuitSkipsRightEvaluation(t *testing.T) {
	// boom is undefined; short-circuiting must never reach it.
	wantLines(t, run(t, `print "x" or boom(); print nil and boom();`), "x", "nil")
}

// --- variables, scoping, blocks --------------------------------------------

func TestVarDefaultsToNil(t *testing.T) {
	wantLines(t, run(t, "var a; print a;"), "nil")
}

func TestAssignmentIsAnExpression(t *testing.T) {
	wantLines(t, run(t, "var a = 1; var b = 2; a = b = 3; print a; print b;"), "3", "3")
	wantLines(t, run(t, "var a = 1; print a = 2;"), "2")
}

func TestBlockShadowing(t *testing.T) {
	wantLines(t, run(t, "var a = 1; { var a = 2; print a; } print a;"), "2", "1")
}

func TestBlockAssignmentReachesOuter(t *testing.T) {
	wantLines(t, run(t, "var a = 1; { a = 2; } print a;"), "2")
}

func TestScopeRestoredAfterBlockError(t *testing.T) {
	ip := NewInterpreter()
	ip.Out = &bytes.Buffer{}

	_, err := ip.EvalPersistentSource("var a = 1; { var a = 2; missing; }")
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("want runtime error, got %v", err)
	}
	// The failing block must have popped back to the outer scope.
	v, err := ip.EvalPersistentSource("a;")
	if err != nil {
		t.Fatalf("scope not restored: %v", err)
	}
	if v.Data.(float64) != 1 {
		t.Fatalf("outer binding corrupted, got %v", v)
	}
}

func TestUndefinedVariable(t *testing.T) {
	wantRuntimeError(t, "print missing;", "missing")
	wantRuntimeError(t, "missing = 1;", "missing")
	wantRuntimeError(t, "var a = 1; { b = 2; }", "b")
}

// --- control flow ----------------------------------------------------------

func TestWhileLoop(t *testing.T) {
	wantLines(t, run(t, "var i = 0; while (i < 3) { print i; i = i + 1; }"), "0", "1", "2")
}

func TestWhileConditionFalseNeverRuns(t *testing.T) {
	wantLines(t, run(t, `while (false) print "never";`))
}

func TestWhilePropagatesBodyError(t *testing.T) {
	wantRuntimeError(t, "var i = 0; while (i < 3) { i = i + 1; boom; }", "boom")
}

func TestForLoop(t *testing.T) {
	wantLines(t, run(t, "for (var i = 0; i < 3; i = i + 1) print i;"), "0", "1", "2")
}

func TestForLoopVariableScoped(t *testing.T) {
	wantRuntimeError(t, "for (var i = 0; i < 1; i = i + 1) {} print i;", "i")
}

func TestForWithoutConditionLoopsForever(t *testing.T) {
	// The absent condition means the loop only exits via return.
	src := `
fun firstOver(n) {
  for (var i = 0;; i = i + 1) {
    if (i > n) return i;
  }
}
print firstOver(4);
`
	wantLines(t, run(t, src), "5")
}

func TestIfWithoutElse(t *testing.T) {
	wantLines(t, run(t, `if (false) print "no";`))
}

// --- functions, closures, return -------------------------------------------

func TestFunctionCallAndReturn(t *testing.T) {
	wantLines(t, run(t, "fun add(a, b) { return a + b; } print add(1, 2);"), "3")
}

func TestFunctionPrintSideEffect(t *testing.T) {
	wantLines(t, run(t, "fun add(a, b) { print a + b; } add(1, 2);"), "3")
}

func TestFunctionFallsOffEndReturnsNil(t *testing.T) {
	wantLines(t, run(t, "fun noop() {} print noop();"), "nil")
	wantLines(t, run(t, "fun f() { return; } print f();"), "nil")
}

func TestReturnExitsEarly(t *testing.T) {
	src := `
fun f() {
  print "before";
  return 1;
  print "after";
}
print f();
`
	wantLines(t, run(t, src), "before", "1")
}

func TestReturnUnwindsNestedBlocksAndLoops(t *testing.T) {
	src := `
fun find() {
  var i = 0;
  while (true) {
    { { if (i == 2) return i; } }
    i = i + 1;
  }
}
print find();
`
	wantLines(t, run(t, src), "2")
}

func TestTopLevelReturnIsAnError(t *testing.T) {
	wantTypeError(t, "return 1;", "top-level")
}

func TestRecursion(t *testing.T) {
	src := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	wantLines(t, run(t, src), "55")
}

func TestFunctionsAreFirstClass(t *testing.T) {
	src := `
fun twice(f, x) { return f(f(x)); }
fun inc(n) { return n + 1; }
print twice(inc, 5);
`
	wantLines(t, run(t, src), "7")
}

func TestChainedCallExpression(t *testing.T) {
	src := `
fun adder(a) {
  fun add(b) { return a + b; }
  return add;
}
print adder(3)(4);
`
	wantLines(t, run(t, src), "7")
}

func TestClosureCapturesDefiningScope(t *testing.T) {
	src := `
fun counter() {
  var i = 0;
  fun inc() {
    i = i + 1;
    return i;
  }
  return inc;
}
var c = counter();
print c();
print c();
var d = counter();
print d();
`
	wantLines(t, run(t, src), "1", "2", "1")
}

func TestClosureSharedMutableState(t *testing.T) {
	// Two closures over the same frame observe each other's writes.
	src := `
var get; var set;
{
  var shared = "init";
  fun read() { return shared; }
  fun write(v) { shared = v; }
  get = read;
  set = write;
}
print get();
set("changed");
print get();
`
	wantLines(t, run(t, src), "init", "changed")
}

func TestLexicalNotDynamicScoping(t *testing.T) {
	// f resolves a against its defining scope, not its caller's.
	src := `
var a = "global";
fun f() { print a; }
fun g() {
  var a = "local";
  f();
}
g();
`
	wantLines(t, run(t, src), "global")
}

func TestFunctionShadowedByLocal(t *testing.T) {
	src := `
var a = 1;
fun show() { print a; }
{
  var a = 2;
  show();
}
`
	wantLines(t, run(t, src), "1")
}

// --- arity, callability, call depth ----------------------------------------

func TestArityMismatch(t *testing.T) {
	wantTypeError(t, "fun add(a, b) { print a + b; } add(1);", "expected 2 arguments but got 1")
	wantTypeError(t, "fun add(a, b) { print a + b; } add(1, 2, 3);", "expected 2 arguments but got 3")
	wantTypeError(t, "clock(1);", "expected 0 arguments but got 1")
}

func TestCallingNonCallable(t *testing.T) {
	wantTypeError(t, `"str"();`, "can only call functions")
	wantTypeError(t, "nil();", "can only call functions")
	wantTypeError(t, "var x = 3; x();", "can only call functions")
}

func TestCallDepthCeiling(t *testing.T) {
	ip := NewInterpreter()
	ip.Out = &bytes.Buffer{}
	ip.MaxCallDepth = 32

	err := ip.Run("fun loop() { return loop(); } loop();")
	ie, ok := err.(*InterpreterError)
	if !ok {
		t.Fatalf("want *InterpreterError, got %v", err)
	}
	if !strings.Contains(ie.Msg, "call depth") {
		t.Fatalf("want call-depth diagnostic, got %q", ie.Msg)
	}

	// The interpreter stays usable after unwinding.
	if err := ip.Run("print 1 + 1;"); err != nil {
		t.Fatalf("interpreter unusable after depth error: %v", err)
	}
}

// --- natives ---------------------------------------------------------------

func TestClockNative(t *testing.T) {
	wantLines(t, run(t, "print clock() > 0;"), "true")
	wantLines(t, run(t, "var t = clock; print t() >= 0;"), "true")
}

func TestRegisterNative(t *testing.T) {
	var buf bytes.Buffer
	ip := NewInterpreter()
	ip.Out = &buf
	ip.RegisterNative("shout", 1, func(args []Value) (Value, error) {
		return Str(strings.ToUpper(args[0].String()) + "!"), nil
	})
	if err := ip.Run(`print shout("hey");`); err != nil {
		t.Fatalf("run: %v", err)
	}
	wantLines(t, buf.String(), "HEY!")
}

// --- display ---------------------------------------------------------------

func TestPrintDisplayForms(t *testing.T) {
	cases := []struct{ src, want string }{
		{"print 3;", "3"},
		{"print 3.5;", "3.5"},
		{"print 100;", "100"},
		{"print true;", "true"},
		{"print false;", "false"},
		{"print nil;", "nil"},
		{`print "plain";`, "plain"},
		{"fun f() {} print f;", "<fn f>"},
		{"print clock;", "<native clock>"},
	}
	for _, c := range cases {
		wantLines(t, run(t, c.src), c.want)
	}
}

// --- halt-on-error ordering ------------------------------------------------

func TestExecutionStopsAtFirstError(t *testing.T) {
	out, err := tryRun(`print "one"; boom; print "two";`)
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("want runtime error, got %v", err)
	}
	wantLines(t, out, "one")
}

func TestParseErrorPreventsExecution(t *testing.T) {
	out, err := tryRun(`print "ok"; print ;`)
	if _, ok := err.(*ParseErrorList); !ok {
		t.Fatalf("want parse errors, got %v", err)
	}
	if out != "" {
		t.Fatalf("no statement may execute when parsing failed, got %q", out)
	}
}

// --- REPL surface ----------------------------------------------------------

func TestEvalPersistentSourceKeepsState(t *testing.T) {
	ip := NewInterpreter()
	ip.Out = &bytes.Buffer{}

	if _, err := ip.EvalPersistentSource("var a = 40;"); err != nil {
		t.Fatalf("define: %v", err)
	}
	v, err := ip.EvalPersistentSource("a + 2;")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Tag != VTNum || v.Data.(float64) != 42 {
		t.Fatalf("want 42, got %v", v)
	}
}

func TestEvalPersistentSourceNonExpressionYieldsNil(t *testing.T) {
	ip := NewInterpreter()
	ip.Out = &bytes.Buffer{}
	v, err := ip.EvalPersistentSource("var x = 1;")
	if err != nil || v.Tag != VTNil {
		t.Fatalf("want nil result, got %v %v", v, err)
	}
}
