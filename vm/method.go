package vm

// Method is anything a VTable can dispatch to: a Go primitive or a user
// method compiled from the program tree.
type Method interface {
	Invoke(in *Interpreter, recv *Object, args []*Object) (*Object, error)
	Name() string
	Arity() int
}

// PrimitiveFunc is a Go function that implements a primitive method.
type PrimitiveFunc func(in *Interpreter, recv *Object, args []*Object) (*Object, error)

// Method0Func is a primitive taking no arguments.
type Method0Func func(in *Interpreter, recv *Object) (*Object, error)

// Method1Func is a primitive taking one argument.
type Method1Func func(in *Interpreter, recv *Object, arg *Object) (*Object, error)

// Method2Func is a primitive taking two arguments.
type Method2Func func(in *Interpreter, recv *Object, arg1, arg2 *Object) (*Object, error)

// ---------------------------------------------------------------------------
// Arity-specialized method wrappers
// ---------------------------------------------------------------------------

// PrimitiveMethod wraps a general PrimitiveFunc as a Method.
type PrimitiveMethod struct {
	name  string
	arity int
	fn    PrimitiveFunc
}

func (m *PrimitiveMethod) Invoke(in *Interpreter, recv *Object, args []*Object) (*Object, error) {
	return m.fn(in, recv, args)
}

func (m *PrimitiveMethod) Name() string { return m.name }
func (m *PrimitiveMethod) Arity() int   { return m.arity }

// Method0 wraps a zero-argument primitive.
type Method0 struct {
	name string
	fn   Method0Func
}

func (m *Method0) Invoke(in *Interpreter, recv *Object, args []*Object) (*Object, error) {
	return m.fn(in, recv)
}

func (m *Method0) Name() string { return m.name }
func (m *Method0) Arity() int   { return 0 }

// Method1 wraps a one-argument primitive.
type Method1 struct {
	name string
	fn   Method1Func
}

func (m *Method1) Invoke(in *Interpreter, recv *Object, args []*Object) (*Object, error) {
	return m.fn(in, recv, args[0])
}

func (m *Method1) Name() string { return m.name }
func (m *Method1) Arity() int   { return 1 }

// Method2 wraps a two-argument primitive.
type Method2 struct {
	name string
	fn   Method2Func
}

func (m *Method2) Invoke(in *Interpreter, recv *Object, args []*Object) (*Object, error) {
	return m.fn(in, recv, args[0], args[1])
}

func (m *Method2) Name() string { return m.name }
func (m *Method2) Arity() int   { return 2 }

// ---------------------------------------------------------------------------
// Factory functions
// ---------------------------------------------------------------------------

// NewPrimitiveMethod creates a primitive taking arity arguments as a slice.
func NewPrimitiveMethod(name string, arity int, fn PrimitiveFunc) Method {
	return &PrimitiveMethod{name: name, arity: arity, fn: fn}
}

// NewMethod0 creates a new zero-argument primitive method.
func NewMethod0(name string, fn Method0Func) Method {
	return &Method0{name: name, fn: fn}
}

// NewMethod1 creates a new one-argument primitive method.
func NewMethod1(name string, fn Method1Func) Method {
	return &Method1{name: name, fn: fn}
}

// NewMethod2 creates a new two-argument primitive method.
func NewMethod2(name string, fn Method2Func) Method {
	return &Method2{name: name, fn: fn}
}
