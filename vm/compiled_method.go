package vm

import "github.com/chazu/sol25/compiler"

// CompiledMethod is a user method installed in a class vtable. Invoking it
// pushes a method frame with self and the parameters bound and evaluates the
// method body.
type CompiledMethod struct {
	class *Class
	src   *compiler.Method
}

func newCompiledMethod(class *Class, src *compiler.Method) *CompiledMethod {
	return &CompiledMethod{class: class, src: src}
}

// Invoke runs the method body on recv.
func (m *CompiledMethod) Invoke(in *Interpreter, recv *Object, args []*Object) (*Object, error) {
	if len(args) != m.Arity() {
		return nil, Errorf(ErrDoNotUnderstand, "%s>>%s expects %d arguments, got %d",
			m.class.Name, m.src.Selector, m.Arity(), len(args))
	}
	frame := NewMethodFrame(m.src.Selector, recv, m.class)
	for i, name := range m.src.Body.Params {
		frame.Bind(name, args[i])
	}
	return in.evalInFrame(frame, m.src.Body.Assigns)
}

func (m *CompiledMethod) Name() string { return m.src.Selector }
func (m *CompiledMethod) Arity() int   { return len(m.src.Body.Params) }

// Class returns the class that declares the method.
func (m *CompiledMethod) Class() *Class { return m.class }

// Source returns the method declaration.
func (m *CompiledMethod) Source() *compiler.Method { return m.src }
