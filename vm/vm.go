package vm

import (
	"fmt"
	"io"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/chazu/sol25/compiler"
)

var log = commonlog.GetLogger("sol25.vm")

// ---------------------------------------------------------------------------
// VM: classes, singletons and the loaded program
// ---------------------------------------------------------------------------

// VM owns everything a run shares: the selector and class tables, the
// built-in classes and the nil/true/false singletons. A VM loads one program.
type VM struct {
	Selectors *SelectorTable
	Classes   *ClassTable

	ObjectClass  *Class
	NilClass     *Class
	TrueClass    *Class
	FalseClass   *Class
	IntegerClass *Class
	StringClass  *Class
	BlockClass   *Class

	Nil   *Object
	True  *Object
	False *Object

	// MaxDepth bounds the frame stack of interpreters created afterwards.
	MaxDepth int

	program *compiler.Program
}

// NewVM creates and bootstraps a new VM.
func NewVM() *VM {
	vm := &VM{
		Selectors: NewSelectorTable(),
		Classes:   NewClassTable(),
		MaxDepth:  DefaultMaxDepth,
	}
	vm.bootstrap()
	return vm
}

func (vm *VM) bootstrap() {
	vm.ObjectClass = vm.createBuiltin("Object", nil, KindInstance)
	vm.NilClass = vm.createBuiltin("Nil", vm.ObjectClass, KindNil)
	vm.TrueClass = vm.createBuiltin("True", vm.ObjectClass, KindTrue)
	vm.FalseClass = vm.createBuiltin("False", vm.ObjectClass, KindFalse)
	vm.IntegerClass = vm.createBuiltin("Integer", vm.ObjectClass, KindInteger)
	vm.StringClass = vm.createBuiltin("String", vm.ObjectClass, KindString)
	vm.BlockClass = vm.createBuiltin("Block", vm.ObjectClass, KindBlock)

	vm.Nil = &Object{kind: KindNil, class: vm.NilClass}
	vm.True = &Object{kind: KindTrue, class: vm.TrueClass}
	vm.False = &Object{kind: KindFalse, class: vm.FalseClass}

	vm.registerObjectPrimitives()
	vm.registerNilPrimitives()
	vm.registerBooleanPrimitives()
	vm.registerIntegerPrimitives()
	vm.registerStringPrimitives()
	vm.registerBlockPrimitives()
}

func (vm *VM) createBuiltin(name string, super *Class, kind Kind) *Class {
	c := &Class{Name: name, Superclass: super, builtin: true, kind: kind}
	vm.linkClass(c)
	vm.Classes.Register(c)
	return c
}

// linkClass creates c's vtables, chained to its superclass.
func (vm *VM) linkClass(c *Class) {
	var parent, classParent *VTable
	if c.Superclass != nil {
		parent = c.Superclass.VTable
		classParent = c.Superclass.ClassVTable
	}
	c.VTable = NewVTable(c, parent)
	c.ClassVTable = NewVTable(c, classParent)
}

// Program returns the loaded program, or nil.
func (vm *VM) Program() *compiler.Program { return vm.program }

// ---------------------------------------------------------------------------
// Loading user classes
// ---------------------------------------------------------------------------

// Load installs the classes of prog. Parents may be declared in any order
// but must exist; inheritance cycles and redefinitions of built-in classes
// are rejected.
func (vm *VM) Load(prog *compiler.Program) error {
	if vm.program != nil {
		return Errorf(ErrInternal, "a program is already loaded")
	}

	names := make([]string, 0, len(prog.Classes))
	for name := range prog.Classes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if existing := vm.Classes.Lookup(name); existing != nil && existing.builtin {
			return Errorf(ErrUnexpectedStructure, "class %s redefines a built-in class", name)
		}
		vm.Classes.Register(&Class{Name: name, source: prog.Classes[name]})
	}

	for _, name := range names {
		c := vm.Classes.Lookup(name)
		parent := vm.Classes.Lookup(c.source.Parent)
		if parent == nil {
			if !declaresEntryPoint(prog) {
				return Errorf(ErrMissingEntryPoint, "class Main with method run is not defined")
			}
			return Errorf(ErrUndefinedVariable, "class %s inherits from undefined class %s", name, c.source.Parent)
		}
		c.Superclass = parent
	}

	for _, name := range names {
		c := vm.Classes.Lookup(name)
		seen := map[*Class]bool{}
		for cur := c; cur != nil; cur = cur.Superclass {
			if seen[cur] {
				if !declaresEntryPoint(prog) {
					return Errorf(ErrMissingEntryPoint, "class Main with method run is not defined")
				}
				return Errorf(ErrUnexpectedStructure, "class %s has a cyclic inheritance chain", name)
			}
			seen[cur] = true
		}
	}

	// Link parents before children so every parent vtable exists.
	linked := map[*Class]bool{}
	var link func(c *Class)
	link = func(c *Class) {
		if c.builtin || linked[c] {
			return
		}
		link(c.Superclass)
		vm.linkClass(c)
		linked[c] = true
		for _, m := range c.source.Methods {
			c.AddMethod(vm.Selectors, m.Selector, newCompiledMethod(c, m))
		}
	}
	for _, name := range names {
		link(vm.Classes.Lookup(name))
	}

	vm.program = prog
	log.Debugf("loaded %d classes", len(names))
	return nil
}

// declaresEntryPoint reports whether Main, or a user class it inherits from,
// declares a unary run method.
func declaresEntryPoint(prog *compiler.Program) bool {
	seen := map[string]bool{}
	for name := "Main"; !seen[name]; {
		seen[name] = true
		c := prog.Classes[name]
		if c == nil {
			return false
		}
		if m := c.Methods["run"]; m != nil && m.Arity() == 0 {
			return true
		}
		name = c.Parent
	}
	return false
}

// NewInterpreter creates an interpreter reading from input and writing to
// output. A nil input behaves as an empty one.
func (vm *VM) NewInterpreter(input Input, output io.Writer) *Interpreter {
	if input == nil {
		input = emptyInput{}
	}
	return &Interpreter{
		vm:     vm,
		stack:  NewStack(vm.MaxDepth),
		input:  input,
		output: output,
	}
}

// ---------------------------------------------------------------------------
// Object construction
// ---------------------------------------------------------------------------

// NewInteger creates a fresh Integer.
func (vm *VM) NewInteger(n int64) *Object {
	return &Object{kind: KindInteger, class: vm.IntegerClass, num: n}
}

// NewString creates a fresh String.
func (vm *VM) NewString(s string) *Object {
	return &Object{kind: KindString, class: vm.StringClass, str: s}
}

// NewBlock closes code over captured.
func (vm *VM) NewBlock(code *compiler.Block, captured *Frame) *Object {
	return &Object{kind: KindBlock, class: vm.BlockClass, block: &BlockValue{Code: code, Captured: captured}}
}

// Bool returns the true or false singleton.
func (vm *VM) Bool(b bool) *Object {
	if b {
		return vm.True
	}
	return vm.False
}

// ClassValue returns the value denoting c as a message receiver.
func (vm *VM) ClassValue(c *Class) *Object {
	if c.value == nil {
		c.value = &Object{kind: KindClass, class: c, ref: c}
	}
	return c.value
}

// Instantiate implements "new": singletons for Nil/True/False, zero values
// for Integer/String/Block, a fresh instance otherwise. Instances of classes
// derived from a value class get the zero value of that class as payload.
func (vm *VM) Instantiate(c *Class) *Object {
	if c.builtin {
		return vm.zeroValue(c)
	}
	inst := &Object{kind: KindInstance, class: c}
	if base := c.BuiltinAncestor(); base != nil && base != vm.ObjectClass {
		inst.payload = vm.zeroValue(base)
	}
	return inst
}

func (vm *VM) zeroValue(c *Class) *Object {
	switch c.kind {
	case KindNil:
		return vm.Nil
	case KindTrue:
		return vm.True
	case KindFalse:
		return vm.False
	case KindInteger:
		return vm.NewInteger(0)
	case KindString:
		return vm.NewString("")
	case KindBlock:
		return vm.NewBlock(&compiler.Block{}, nil)
	}
	return &Object{kind: KindInstance, class: c}
}

// Convert implements "from:": it turns arg into an instance of c.
func (vm *VM) Convert(c *Class, arg *Object) (*Object, error) {
	if !c.builtin {
		inst := vm.Instantiate(c)
		if arg.kind == KindInstance {
			inst.copyAttrsFrom(arg)
		}
		if inst.payload != nil {
			p, err := vm.Convert(inst.payload.class, arg.Payload0())
			if err != nil {
				return nil, err
			}
			if p.kind != inst.payload.kind {
				return p, nil
			}
			inst.payload = p
		}
		return inst, nil
	}

	switch c.kind {
	case KindNil, KindTrue, KindFalse:
		return vm.zeroValue(c), nil
	case KindInteger:
		if n, ok := arg.Int(); ok {
			if arg.kind == KindInteger {
				return arg, nil
			}
			return vm.NewInteger(n), nil
		}
		if s, ok := arg.Str(); ok {
			return vm.parseInteger(s), nil
		}
	case KindString:
		if s, ok := arg.Str(); ok {
			if arg.kind == KindString {
				return arg, nil
			}
			return vm.NewString(s), nil
		}
		if n, ok := arg.Int(); ok {
			return vm.NewString(fmt.Sprint(n)), nil
		}
	case KindBlock:
		if _, ok := arg.Block(); ok {
			return arg.Payload(), nil
		}
	case KindInstance:
		inst := &Object{kind: KindInstance, class: c}
		if arg.kind == KindInstance {
			inst.copyAttrsFrom(arg)
		}
		return inst, nil
	}
	return nil, Errorf(ErrType, "%s from: cannot convert %s", c.Name, arg)
}

// Payload0 returns the payload of an instance, or the object itself when it
// has none; used when a conversion source is itself an instance.
func (o *Object) Payload0() *Object {
	if p := o.Payload(); p != nil {
		return p
	}
	return o
}
