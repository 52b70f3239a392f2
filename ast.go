// ast.go — the two closed node sets the parser produces and the interpreter
// consumes.
//
// Expression and statement variants are plain structs behind the Expr/Stmt
// marker interfaces. The interpreter switches over the concrete types
// exhaustively; there is no visitor indirection. Nodes own their children
// exclusively (trees are acyclic and never shared between programs) and carry
// only what re-evaluation needs — tokens are copied in wherever a runtime
// diagnostic will want a source position.
package mica

// Expr is the closed set of expression nodes.
type Expr interface{ expr() }

// Stmt is the closed set of statement nodes.
type Stmt interface{ stmt() }

// ─── expressions ───

// BinaryExpr is a left-associative infix operation: Left Operator Right.
type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// GroupingExpr is a parenthesized expression. It has no effect of its own.
type GroupingExpr struct {
	Expression Expr
}

// LiteralExpr carries the literal payload resolved at scan time:
// string, float64, bool, or nil.
type LiteralExpr struct {
	Value interface{}
}

// UnaryExpr is a prefix operation: Operator Right ("-" or "!").
type UnaryExpr struct {
	Operator Token
	Right    Expr
}

// VariableExpr reads the value bound to Name in the current scope chain.
type VariableExpr struct {
	Name Token
}

// AssignExpr rebinds Name in the nearest scope that already defines it and
// yields the assigned value (assignment is an expression).
type AssignExpr struct {
	Name  Token
	Value Expr
}

// LogicalExpr is a short-circuiting "and"/"or". The returned value is the
// deciding operand itself, never a coerced boolean.
type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// CallExpr invokes Callee with Arguments. Paren is the closing ')' of the
// call site, kept for error positions.
type CallExpr struct {
	Callee    Expr
	Paren     Token
	Arguments []Expr
}

func (*BinaryExpr) expr()   {}
func (*GroupingExpr) expr() {}
func (*LiteralExpr) expr()  {}
func (*UnaryExpr) expr()    {}
func (*VariableExpr) expr() {}
func (*AssignExpr) expr()   {}
func (*LogicalExpr) expr()  {}
func (*CallExpr) expr()     {}

// ─── statements ───

// ExpressionStmt evaluates an expression for effect and discards the value.
type ExpressionStmt struct {
	Expression Expr
}

// PrintStmt evaluates its expression and emits its display form as one line.
type PrintStmt struct {
	Expression Expr
}

// VarStmt declares Name in the current scope. A nil Initializer binds nil.
type VarStmt struct {
	Name        Token
	Initializer Expr
}

// BlockStmt executes its statements in a fresh child scope.
type BlockStmt struct {
	Statements []Stmt
}

// IfStmt executes Then when Condition is truthy, Else (optional) otherwise.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// WhileStmt re-evaluates Condition before each iteration of Body.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a named function. Params are IDENTIFIER tokens.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt exits the enclosing call with Value (nil expression = nil).
// Keyword is the "return" token, kept for error positions.
type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

func (*ExpressionStmt) stmt() {}
func (*PrintStmt) stmt()      {}
func (*VarStmt) stmt()        {}
func (*BlockStmt) stmt()      {}
func (*IfStmt) stmt()         {}
func (*WhileStmt) stmt()      {}
func (*FunctionStmt) stmt()   {}
func (*ReturnStmt) stmt()     {}
