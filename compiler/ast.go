package compiler

import "strings"

// ---------------------------------------------------------------------------
// AST: typed SOL25 program
// ---------------------------------------------------------------------------

// Program is the set of classes declared by a source file, keyed by name.
// It is built once by Build and never modified afterwards.
type Program struct {
	Language    string
	Description string
	Classes     map[string]*Class
}

// Class is a user-declared class.
type Class struct {
	Name    string
	Parent  string
	Methods map[string]*Method
}

// Method binds a selector to a block body.
type Method struct {
	Selector string
	Body     *Block
}

// Arity is the number of arguments the selector takes.
func (m *Method) Arity() int {
	return SelectorArity(m.Selector)
}

// SelectorArity counts the keyword parts of a selector ("at:put:" is 2).
func SelectorArity(selector string) int {
	return strings.Count(selector, ":")
}

// Assign binds the value of an expression to a local name.
type Assign struct {
	Order  int
	Target string
	Value  Expr
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes. The concrete alternatives are
// *Literal, *Variable, *Group, *Send and *Block.
type Expr interface {
	expr() // marker method
}

// Literal is a constant tagged with its class: Integer, String, Nil, True,
// False, or "class" for a reference to a class by name.
type Literal struct {
	Class string
	Value string
}

func (*Literal) expr() {}

// Literal class tag for class references.
const ClassLiteral = "class"

// Variable references a local name (self and super included).
type Variable struct {
	Name string
}

func (*Variable) expr() {}

// Group is an expression nested directly inside another expression.
type Group struct {
	Inner Expr
}

func (*Group) expr() {}

// Send delivers a message to the value of Receiver.
type Send struct {
	Selector string
	Receiver Expr
	Args     []Expr
}

func (*Send) expr() {}

// Block is a parameterized sequence of assignments.
type Block struct {
	Params  []string
	Assigns []*Assign
}

func (*Block) expr() {}

// Arity is the number of block parameters.
func (b *Block) Arity() int {
	return len(b.Params)
}
