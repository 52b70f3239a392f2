// env.go — lexical environments.
//
// An Env is one frame of the scope chain: a name→Value table plus a parent
// link. Lookups walk parent-ward; the global frame has a nil parent and the
// chain is always acyclic and finite. Frames are created at interpreter
// start (globals), on block entry, and on function calls; a closure keeps
// its defining frame reachable for as long as the closure value lives, so
// a frame's lifetime is the longest of its holders', not its block's.
package mica

// Env is a lexical environment frame with a parent link.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Parent returns the enclosing frame, or nil at the root.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name to v in this frame. Rebinding an existing name in the
// same frame is allowed; binding a name that exists in an outer frame
// shadows it.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get resolves name through the chain, innermost first. A miss at the root
// is a *RuntimeError naming the identifier; tok supplies the position.
func (e *Env) Get(tok Token) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[tok.Lexeme]; ok {
			return v, nil
		}
	}
	return Value{}, &RuntimeError{
		Lexeme: tok.Lexeme,
		Line:   tok.Line,
		Col:    tok.Col,
		Msg:    "undefined variable '" + tok.Lexeme + "'",
	}
}

// Assign rebinds name in the nearest frame that already defines it.
// Assignment never implicitly creates a binding: with no defining frame in
// the chain it fails with a *RuntimeError.
func (e *Env) Assign(tok Token, v Value) error {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[tok.Lexeme]; ok {
			f.table[tok.Lexeme] = v
			return nil
		}
	}
	return &RuntimeError{
		Lexeme: tok.Lexeme,
		Line:   tok.Line,
		Col:    tok.Col,
		Msg:    "undefined variable '" + tok.Lexeme + "'",
	}
}
