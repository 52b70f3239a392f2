// value.go — the runtime value model.
//
// Value is the universal tagged carrier the evaluator produces and consumes.
// The tag determines which Go type Data holds:
//
//	VTNil    — nil
//	VTBool   — bool
//	VTNum    — float64 (all numbers are IEEE-754 doubles)
//	VTStr    — string
//	VTFun    — *Fun (user function closure)
//	VTNative — *Native (host function descriptor)
//
// Values are immutable once produced; mutation in the language is always a
// rebind of a name inside an Env, never an in-place edit of a Value.
package mica

import "strconv"

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil ValueTag = iota
	VTBool
	VTNum
	VTStr
	VTFun
	VTNative
)

// Value is the tagged union of runtime values.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// Primitive constructors.
func BoolVal(b bool) Value { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value  { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// NativeVal wraps *Native into a Value.
func NativeVal(n *Native) Value { return Value{Tag: VTNative, Data: n} }

// Truthy applies the language's conditional coercion: everything is truthy
// except false and nil. 0 and "" are truthy.
func Truthy(v Value) bool {
	if v.Tag == VTNil {
		return false
	}
	if v.Tag == VTBool {
		return v.Data.(bool)
	}
	return true
}

// Equal implements cross-type equality: values are equal iff they hold the
// same kind and the payloads compare equal (numbers by IEEE value, so
// NaN != NaN). Mismatched kinds are simply unequal — never an error.
// Function values are only equal to themselves.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		return a.Data == b.Data
	}
}

// String renders the display form used by print and the REPL echo:
// strings verbatim, numbers in shortest decimal form, booleans as
// true/false, nil as "nil", functions as opaque labels.
func (v Value) String() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		return "<fn " + v.Data.(*Fun).Decl.Name.Lexeme + ">"
	case VTNative:
		return "<native " + v.Data.(*Native).Name + ">"
	default:
		return "<unknown>"
	}
}

// Fun is a user-defined function closure: the declaration plus the Env that
// was current when the declaration executed. The captured Env stays alive as
// long as any Fun value referencing it does, which is what makes closures
// observe later writes through the shared scope.
type Fun struct {
	Decl *FunctionStmt
	Env  *Env
}

// NativeImpl is the implementation signature for registered host functions.
// Implementations must not touch any interpreter scope.
type NativeImpl func(args []Value) (Value, error)

// Native is a host function descriptor registered on the interpreter.
type Native struct {
	Name  string
	NArgs int
	Impl  NativeImpl
}

// Callable is the capability shared by user functions and natives: a fixed
// arity the call site checks before invocation. The interpreter dispatches
// the invocation itself, since user functions need the evaluator.
type Callable interface {
	Arity() int
}

func (f *Fun) Arity() int    { return len(f.Decl.Params) }
func (n *Native) Arity() int { return n.NArgs }
