// parser.go — recursive-descent parser for mica.
//
// OVERVIEW
// --------
// Single pass over the token stream, one method per grammar rule, descending
// precedence (lowest first):
//
//	program     → declaration* EOF
//	declaration → funDecl | varDecl | statement
//	statement   → exprStmt | printStmt | returnStmt | ifStmt | whileStmt
//	            | forStmt | block
//	expression  → assignment
//	assignment  → IDENTIFIER "=" assignment | logicOr
//	logicOr     → logicAnd ( "or" logicAnd )*
//	logicAnd    → equality ( "and" equality )*
//	equality    → comparison ( ( "!=" | "==" ) comparison )*
//	comparison  → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        → factor ( ( "-" | "+" ) factor )*
//	factor      → unary ( ( "/" | "*" ) unary )*
//	unary       → ( "!" | "-" ) unary | call
//	call        → primary ( "(" arguments? ")" )*
//	primary     → NUMBER | STRING | "true" | "false" | "nil" | IDENTIFIER
//	            | "(" expression ")"
//
// Binary levels are left-associative; assignment is right-associative. The
// call rule loops so chained invocations like f()() parse naturally.
//
// Policies:
//   - "for" is pure sugar: it is rewritten here into an equivalent while,
//     initializer hoisted into a wrapping block, increment appended to the
//     body, absent condition replaced with literal true (an absent condition
//     never terminates the loop).
//   - Argument and parameter lists are capped at 255 entries. Overflow is a
//     reported diagnostic, not an abort: the rest of the list is still
//     consumed up to the closing ')' so parsing can continue cleanly.
//   - Error recovery is panic-mode: a diagnostic inside declaration()
//     discards tokens until just past a ';' or just before a token that can
//     start a statement, then parsing resumes. One broken statement, one
//     diagnostic.
//   - Every expected delimiter goes through consume(type, msg), which raises
//     a *ParseError carrying the offending token and cursor position.
//   - An assignment target must have parsed as a bare variable reference;
//     anything else is "Invalid assignment target." and never a silent no-op.
//
// Interactive mode (NewParserInteractive) reports an expected-token failure
// at EOF as *IncompleteError instead, so a REPL can keep reading lines.
package mica

// maxArgs bounds argument and parameter list lengths.
const maxArgs = 255

// Parser consumes a token sequence (ending in EOF) and produces statements.
type Parser struct {
	tokens      []Token
	current     int
	interactive bool

	errs []*ParseError
}

// NewParser creates a parser over tokens. The slice must end in an EOF token.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// NewParserInteractive creates a REPL-friendly parser: unterminated
// constructs at EOF surface as *IncompleteError from Parse.
func NewParserInteractive(tokens []Token) *Parser {
	return &Parser{tokens: tokens, interactive: true}
}

// ParseSource scans and parses src in one step.
func ParseSource(src string) ([]Stmt, error) {
	toks, err := NewScanner(src).Scan()
	if err != nil {
		return nil, err
	}
	return NewParser(toks).Parse()
}

// Parse parses the whole token stream into an ordered statement sequence.
// On syntax errors it keeps going via panic-mode recovery and returns every
// diagnostic in a *ParseErrorList; the partial statement list accompanies it
// but must not be executed. In interactive mode a premature EOF returns
// *IncompleteError instead.
func (p *Parser) Parse() ([]Stmt, error) {
	var statements []Stmt
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			if inc, ok := err.(*IncompleteError); ok && p.interactive {
				return nil, inc
			}
			// declaration already recorded and synchronized; keep going.
			continue
		}
		statements = append(statements, stmt)
	}
	if len(p.errs) > 0 {
		return statements, &ParseErrorList{Errs: p.errs}
	}
	return statements, nil
}

// ─── token basics ───

func (p *Parser) atEnd() bool   { return p.peek().Type == EOF }
func (p *Parser) peek() Token   { return p.tokens[p.current] }
func (p *Parser) prev() Token   { return p.tokens[p.current-1] }
func (p *Parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.prev()
}

func (p *Parser) match(tts ...TokenType) bool {
	for _, tt := range tts {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), msg)
}

// errorAt builds a diagnostic for tok. In interactive mode a failure at the
// EOF sentinel means the input just stopped early.
func (p *Parser) errorAt(tok Token, msg string) error {
	if p.interactive && tok.Type == EOF {
		return &IncompleteError{Msg: msg}
	}
	return &ParseError{Token: tok, Pos: p.current, Msg: msg}
}

// record stores a diagnostic for the final report.
func (p *Parser) record(err error) {
	if pe, ok := err.(*ParseError); ok {
		p.errs = append(p.errs, pe)
	}
}

// synchronize discards tokens until a likely statement boundary: just past a
// ';', or just before a keyword that can begin a declaration or statement.
// This bounds error cascades to one diagnostic per broken statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.prev().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// ─── declarations & statements ───

func (p *Parser) declaration() (Stmt, error) {
	var stmt Stmt
	var err error
	switch {
	case p.match(FUN):
		stmt, err = p.function("function")
	case p.match(VAR):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		if _, ok := err.(*IncompleteError); ok {
			return nil, err
		}
		p.record(err)
		p.synchronize()
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(IDENTIFIER, "expect variable name")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(EQUAL) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "expect ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: init}, nil
}

func (p *Parser) function(kind string) (Stmt, error) {
	name, err := p.consume(IDENTIFIER, "expect "+kind+" name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(LEFT_PAREN, "expect '(' after "+kind+" name"); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(RIGHT_PAREN) {
		n := 0
		for {
			if n == maxArgs {
				// Report once, but keep consuming the rest of the list so the
				// parser lands cleanly on ')'.
				p.record(&ParseError{Token: p.peek(), Pos: p.current,
					Msg: "can't have more than 255 parameters"})
			}
			param, err := p.consume(IDENTIFIER, "expect parameter name")
			if err != nil {
				return nil, err
			}
			if n < maxArgs {
				params = append(params, param)
			}
			n++
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RIGHT_PAREN, "expect ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.consume(LEFT_BRACE, "expect '{' before "+kind+" body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(IF):
		return p.ifStatement()
	case p.match(FOR):
		return p.forStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(PRINT):
		return p.printStatement()
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(LEFT_BRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts}, nil
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "expect ';' after value"); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	keyword := p.prev()
	var value Expr
	if !p.check(SEMICOLON) {
		var err error
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "expect ';' after return value"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expression: value}, nil
}

func (p *Parser) block() ([]Stmt, error) {
	var statements []Stmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			if _, ok := err.(*IncompleteError); ok {
				return nil, err
			}
			// Recovered inside the block; continue with the next statement.
			continue
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(RIGHT_BRACE, "expect '}' after block"); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	if _, err := p.consume(LEFT_PAREN, "expect '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RIGHT_PAREN, "expect ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	if _, err := p.consume(LEFT_PAREN, "expect '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RIGHT_PAREN, "expect ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// forStatement desugars "for (init; cond; incr) body" into:
//
//	{ init; while (cond) { body; incr; } }
//
// A missing condition becomes literal true: the loop never terminates from
// the condition check.
func (p *Parser) forStatement() (Stmt, error) {
	if _, err := p.consume(LEFT_PAREN, "expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case p.match(VAR):
		if initializer, err = p.varDeclaration(); err != nil {
			return nil, err
		}
	default:
		if initializer, err = p.expressionStatement(); err != nil {
			return nil, err
		}
	}

	var condition Expr
	if !p.check(SEMICOLON) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "expect ';' after loop condition"); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(RIGHT_PAREN) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RIGHT_PAREN, "expect ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: true}
	}
	body = &WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}
	return body, nil
}

// ─── expressions ───

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(EQUAL) {
		equals := p.prev()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := expr.(*VariableExpr); ok {
			return &AssignExpr{Name: v.Name, Value: value}, nil
		}
		return nil, p.errorAt(equals, "Invalid assignment target.")
	}
	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(BANG_EQUAL, EQUAL_EQUAL) {
		op := p.prev()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		op := p.prev()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MINUS, PLUS) {
		op := p.prev()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(SLASH, STAR) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: op, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(LEFT_PAREN) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		n := 0
		for {
			if n == maxArgs {
				p.record(&ParseError{Token: p.peek(), Pos: p.current,
					Msg: "can't have more than 255 arguments"})
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			if n < maxArgs {
				args = append(args, arg)
			}
			n++
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(RIGHT_PAREN, "expect ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{Value: false}, nil
	case p.match(TRUE):
		return &LiteralExpr{Value: true}, nil
	case p.match(NIL):
		return &LiteralExpr{Value: nil}, nil
	case p.match(NUMBER, STRING):
		return &LiteralExpr{Value: p.prev().Literal}, nil
	case p.match(IDENTIFIER):
		return &VariableExpr{Name: p.prev()}, nil
	case p.match(LEFT_PAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RIGHT_PAREN, "expect ')' after expression"); err != nil {
			return nil, err
		}
		return &GroupingExpr{Expression: expr}, nil
	}
	return nil, p.errorAt(p.peek(), "expect expression")
}
