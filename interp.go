// interp.go — the tree-walking evaluator.
//
// OVERVIEW
// --------
// The Interpreter executes the statement sequence the parser produced,
// double-dispatching over the closed AST variants with plain type switches.
// Statements run for effect; expressions reduce to a Value. Evaluation is
// strict, depth-first, and single-threaded.
//
// Scoping model
// -------------
// Exactly one "current scope" cursor (ip.env) exists per interpreter. The
// only operations that move it are block entry/exit and function calls, and
// each entry is paired with a deferred restore that runs on every exit path,
// error propagation included. This pairing is the load-bearing invariant of
// the evaluator: breaking it silently corrupts later lookups instead of
// crashing. Closures capture the frame that was current at their definition
// and share it with every other holder — writes through a captured frame are
// visible to all of them after the defining block has exited.
//
// Non-local exit
// --------------
// "return" threads a *returnSignal through the ordinary error channel. The
// enclosing call intercepts it and yields its value; a body that falls off
// the end yields nil. A return that reaches the top level is reported as an
// *InterpreterError rather than silently ignored.
//
// Call depth
// ----------
// Recursion depth would otherwise be bounded only by the host stack, so
// calls count against MaxCallDepth and exhaustion is a recoverable
// *InterpreterError, not a host fault.
package mica

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Version of the interpreter, reported by the CLI.
const Version = "0.3.1"

// DefaultMaxCallDepth bounds user-level call nesting.
const DefaultMaxCallDepth = 1000

// Interpreter evaluates parsed programs against a scope chain rooted at
// Globals. Out receives print output (stdout unless redirected, which tests
// and hosts do).
type Interpreter struct {
	Globals *Env
	Out     io.Writer

	// MaxCallDepth bounds nested user-function calls. Exceeding it aborts
	// the run with a type-class error instead of exhausting the host stack.
	MaxCallDepth int

	env   *Env // current scope cursor
	depth int  // live user-call nesting
}

// NewInterpreter returns a ready interpreter with the native bridge
// installed (currently just clock).
func NewInterpreter() *Interpreter {
	globals := NewEnv(nil)
	ip := &Interpreter{
		Globals:      globals,
		Out:          os.Stdout,
		MaxCallDepth: DefaultMaxCallDepth,
		env:          globals,
	}
	ip.RegisterNative("clock", 0, func(args []Value) (Value, error) {
		return Num(float64(time.Now().UnixNano()) / 1e9), nil
	})
	return ip
}

// RegisterNative binds a host function as a global. This is the host's
// configuration point; the language itself has no syntax for it. Natives
// must not mutate any scope.
func (ip *Interpreter) RegisterNative(name string, nargs int, impl NativeImpl) {
	ip.Globals.Define(name, NativeVal(&Native{Name: name, NArgs: nargs, Impl: impl}))
}

// Interpret executes statements in order against the current scope. The
// first unrecovered error stops execution and is returned; no statement
// after a failing one runs.
func (ip *Interpreter) Interpret(statements []Stmt) error {
	for _, stmt := range statements {
		if err := ip.execute(stmt); err != nil {
			if ret, ok := err.(*returnSignal); ok {
				return &InterpreterError{Token: ret.keyword, Msg: "can't return from top-level code"}
			}
			return err
		}
	}
	return nil
}

// Run scans, parses, and interprets src. Any parse diagnostic prevents
// execution entirely.
func (ip *Interpreter) Run(src string) error {
	stmts, err := ParseSource(src)
	if err != nil {
		return err
	}
	return ip.Interpret(stmts)
}

// EvalPersistentSource runs src against the persistent global state and
// returns the value of the last expression statement (nil if the program
// ends in some other statement kind). This is the REPL entry point.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	toks, err := NewScanner(src).Scan()
	if err != nil {
		return Nil, err
	}
	stmts, err := NewParserInteractive(toks).Parse()
	if err != nil {
		return Nil, err
	}
	last := Nil
	for _, stmt := range stmts {
		if es, ok := stmt.(*ExpressionStmt); ok {
			v, err := ip.evaluate(es.Expression)
			if err != nil {
				return Nil, err
			}
			last = v
			continue
		}
		if err := ip.execute(stmt); err != nil {
			if ret, ok := err.(*returnSignal); ok {
				return Nil, &InterpreterError{Token: ret.keyword, Msg: "can't return from top-level code"}
			}
			return Nil, err
		}
		last = Nil
	}
	return last, nil
}

// returnSignal is the distinguished control-flow result "return" threads
// through statement execution. It rides the error channel so the deferred
// scope restores run, and is intercepted at the nearest call boundary.
type returnSignal struct {
	keyword Token
	value   Value
}

func (r *returnSignal) Error() string { return "return outside function" }

// ─── statement execution ───

func (ip *Interpreter) execute(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := ip.evaluate(s.Expression)
		return err

	case *PrintStmt:
		v, err := ip.evaluate(s.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(ip.Out, v.String())
		return nil

	case *VarStmt:
		value := Nil
		if s.Initializer != nil {
			var err error
			if value, err = ip.evaluate(s.Initializer); err != nil {
				return err
			}
		}
		ip.env.Define(s.Name.Lexeme, value)
		return nil

	case *BlockStmt:
		return ip.executeBlock(s.Statements, NewEnv(ip.env))

	case *IfStmt:
		cond, err := ip.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return ip.execute(s.Then)
		}
		if s.Else != nil {
			return ip.execute(s.Else)
		}
		return nil

	case *WhileStmt:
		for {
			cond, err := ip.evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !Truthy(cond) {
				return nil
			}
			if err := ip.execute(s.Body); err != nil {
				return err
			}
		}

	case *FunctionStmt:
		// Capture the scope active right now; that frame is what nested
		// reads and writes resolve against after this block exits.
		ip.env.Define(s.Name.Lexeme, FunVal(&Fun{Decl: s, Env: ip.env}))
		return nil

	case *ReturnStmt:
		value := Nil
		if s.Value != nil {
			var err error
			if value, err = ip.evaluate(s.Value); err != nil {
				return err
			}
		}
		return &returnSignal{keyword: s.Keyword, value: value}

	default:
		return fmt.Errorf("unhandled statement %T", stmt)
	}
}

// executeBlock runs statements with env as the current scope and restores
// the caller's scope on every exit path — normal completion, return signal,
// or propagated error.
func (ip *Interpreter) executeBlock(statements []Stmt, env *Env) error {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()

	for _, stmt := range statements {
		if err := ip.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ─── expression evaluation ───

func (ip *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		switch v := e.Value.(type) {
		case nil:
			return Nil, nil
		case bool:
			return BoolVal(v), nil
		case float64:
			return Num(v), nil
		case string:
			return Str(v), nil
		default:
			return Nil, fmt.Errorf("unhandled literal payload %T", e.Value)
		}

	case *GroupingExpr:
		return ip.evaluate(e.Expression)

	case *VariableExpr:
		return ip.env.Get(e.Name)

	case *AssignExpr:
		value, err := ip.evaluate(e.Value)
		if err != nil {
			return Nil, err
		}
		if err := ip.env.Assign(e.Name, value); err != nil {
			return Nil, err
		}
		return value, nil

	case *UnaryExpr:
		right, err := ip.evaluate(e.Right)
		if err != nil {
			return Nil, err
		}
		switch e.Operator.Type {
		case MINUS:
			if right.Tag != VTNum {
				return Nil, ip.typeErr(e.Operator, "operand must be a number, got %s", kindName(right))
			}
			return Num(-right.Data.(float64)), nil
		case BANG:
			return BoolVal(!Truthy(right)), nil
		}
		return Nil, ip.typeErr(e.Operator, "unknown unary operator")

	case *LogicalExpr:
		left, err := ip.evaluate(e.Left)
		if err != nil {
			return Nil, err
		}
		// Short-circuit returns the deciding operand itself, uncoerced.
		if e.Operator.Type == OR {
			if Truthy(left) {
				return left, nil
			}
		} else {
			if !Truthy(left) {
				return left, nil
			}
		}
		return ip.evaluate(e.Right)

	case *BinaryExpr:
		return ip.binary(e)

	case *CallExpr:
		return ip.call(e)

	default:
		return Nil, fmt.Errorf("unhandled expression %T", expr)
	}
}

// binary evaluates left fully before right, then dispatches on operand
// kinds. Arithmetic and ordering need two numbers; '+' also concatenates
// two strings; equality is defined across every kind pairing.
func (ip *Interpreter) binary(e *BinaryExpr) (Value, error) {
	left, err := ip.evaluate(e.Left)
	if err != nil {
		return Nil, err
	}
	right, err := ip.evaluate(e.Right)
	if err != nil {
		return Nil, err
	}

	if left.Tag == VTNum && right.Tag == VTNum {
		l, r := left.Data.(float64), right.Data.(float64)
		switch e.Operator.Type {
		case MINUS:
			return Num(l - r), nil
		case SLASH:
			return Num(l / r), nil
		case STAR:
			return Num(l * r), nil
		case PLUS:
			return Num(l + r), nil
		case GREATER:
			return BoolVal(l > r), nil
		case GREATER_EQUAL:
			return BoolVal(l >= r), nil
		case LESS:
			return BoolVal(l < r), nil
		case LESS_EQUAL:
			return BoolVal(l <= r), nil
		case EQUAL_EQUAL:
			return BoolVal(l == r), nil
		case BANG_EQUAL:
			return BoolVal(l != r), nil
		}
	}

	if left.Tag == VTStr && right.Tag == VTStr && e.Operator.Type == PLUS {
		return Str(left.Data.(string) + right.Data.(string)), nil
	}

	switch e.Operator.Type {
	case EQUAL_EQUAL:
		return BoolVal(Equal(left, right)), nil
	case BANG_EQUAL:
		return BoolVal(!Equal(left, right)), nil
	case PLUS:
		return Nil, ip.typeErr(e.Operator, "operands must be two numbers or two strings, got %s and %s",
			kindName(left), kindName(right))
	default:
		return Nil, ip.typeErr(e.Operator, "operands must be numbers, got %s and %s",
			kindName(left), kindName(right))
	}
}

// call evaluates the callee, then each argument left-to-right, checks the
// callable capability and exact arity, and invokes.
func (ip *Interpreter) call(e *CallExpr) (Value, error) {
	callee, err := ip.evaluate(e.Callee)
	if err != nil {
		return Nil, err
	}

	args := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := ip.evaluate(arg)
		if err != nil {
			return Nil, err
		}
		args = append(args, v)
	}

	// Only *Fun and *Native carry the Callable capability.
	fn, ok := callee.Data.(Callable)
	if !ok {
		return Nil, ip.typeErr(e.Paren, "can only call functions, got %s", kindName(callee))
	}
	if len(args) != fn.Arity() {
		return Nil, ip.typeErr(e.Paren, "expected %d arguments but got %d", fn.Arity(), len(args))
	}

	switch f := fn.(type) {
	case *Fun:
		return ip.callFun(f, args, e.Paren)
	case *Native:
		return f.Impl(args)
	default:
		return Nil, ip.typeErr(e.Paren, "can only call functions, got %s", kindName(callee))
	}
}

// callFun binds arguments in a fresh child of the function's captured
// defining scope — not the caller's scope — and runs the body. That choice
// is what makes scoping lexical rather than dynamic.
func (ip *Interpreter) callFun(f *Fun, args []Value, site Token) (Value, error) {
	if ip.depth >= ip.MaxCallDepth {
		return Nil, ip.typeErr(site, "call depth exceeded (max %d)", ip.MaxCallDepth)
	}
	ip.depth++
	defer func() { ip.depth-- }()

	env := NewEnv(f.Env)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	if err := ip.executeBlock(f.Decl.Body, env); err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.value, nil
		}
		return Nil, err
	}
	return Nil, nil
}

func (ip *Interpreter) typeErr(tok Token, format string, args ...interface{}) error {
	return &InterpreterError{Token: tok, Msg: fmt.Sprintf(format, args...)}
}

// kindName names a value's kind for diagnostics.
func kindName(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return "bool"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTFun:
		return "function"
	case VTNative:
		return "native function"
	default:
		return "unknown"
	}
}
