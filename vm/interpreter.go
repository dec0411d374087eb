package vm

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/sol25/compiler"
)

// maxTraceFrames bounds the frame names attached to an Error.
const maxTraceFrames = 16

// ---------------------------------------------------------------------------
// Interpreter: tree-walking evaluator
// ---------------------------------------------------------------------------

// Interpreter evaluates a loaded program. It owns the frame stack and the
// input/output collaborators; the VM supplies classes and singletons.
type Interpreter struct {
	vm     *VM
	stack  *Stack
	input  Input
	output io.Writer
	runID  string
}

// VM returns the VM the interpreter runs on.
func (in *Interpreter) VM() *VM { return in.vm }

// Stack returns the frame stack.
func (in *Interpreter) Stack() *Stack { return in.stack }

// RunID identifies the current or last run; empty before Run.
func (in *Interpreter) RunID() string { return in.runID }

// Run creates an instance of Main and sends it run.
func (in *Interpreter) Run() (*Object, error) {
	if in.vm.program == nil {
		return nil, Errorf(ErrInternal, "no program loaded")
	}
	main := in.vm.Classes.Lookup("Main")
	if main == nil || main.builtin {
		return nil, Errorf(ErrMissingEntryPoint, "class Main is not defined")
	}
	var run *CompiledMethod
	if id := in.vm.Selectors.Lookup("run"); id >= 0 {
		run, _ = main.VTable.Lookup(id).(*CompiledMethod)
	}
	if run == nil || run.Arity() != 0 {
		return nil, Errorf(ErrMissingEntryPoint, "class Main has no method run")
	}

	in.runID = uuid.NewString()
	start := time.Now()
	log.Infof("run %s: starting Main>>run", in.runID)

	result, err := run.Invoke(in, in.vm.Instantiate(main), nil)
	if err != nil {
		log.Infof("run %s: failed after %s: %s", in.runID, time.Since(start), KindOf(err))
		return nil, err
	}
	log.Infof("run %s: finished in %s", in.runID, time.Since(start))
	return result, nil
}

// evalInFrame pushes frame, evaluates assigns in order and pops the frame.
// The result is the value of the last assignment, or nil for an empty body.
func (in *Interpreter) evalInFrame(frame *Frame, assigns []*compiler.Assign) (*Object, error) {
	if err := in.stack.Push(frame); err != nil {
		return nil, err
	}
	defer in.stack.Pop()

	result := in.vm.Nil
	for _, a := range assigns {
		v, err := in.eval(a.Value)
		if err != nil {
			return nil, in.annotate(err)
		}
		frame.Bind(a.Target, v)
		result = v
	}
	return result, nil
}

// annotate records the live frames on the first Error that passes through.
func (in *Interpreter) annotate(err error) error {
	var e *Error
	if errors.As(err, &e) && e.Frames == nil {
		names := in.stack.Names()
		if len(names) > maxTraceFrames {
			names = names[:maxTraceFrames]
		}
		e.Frames = names
	}
	return err
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (in *Interpreter) eval(e compiler.Expr) (*Object, error) {
	switch e := e.(type) {
	case *compiler.Literal:
		return in.evalLiteral(e)
	case *compiler.Variable:
		return in.lookup(e.Name)
	case *compiler.Group:
		return in.eval(e.Inner)
	case *compiler.Block:
		return in.vm.NewBlock(e, in.stack.Top()), nil
	case *compiler.Send:
		return in.evalSend(e)
	case nil:
		return nil, Errorf(ErrInternal, "nil expression")
	default:
		return nil, Errorf(ErrInternal, "unknown expression %T", e)
	}
}

func (in *Interpreter) evalLiteral(lit *compiler.Literal) (*Object, error) {
	switch lit.Class {
	case "Integer":
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return nil, Errorf(ErrUnexpectedStructure, "integer literal %q", lit.Value)
		}
		return in.vm.NewInteger(n), nil
	case "String":
		return in.vm.NewString(lit.Value), nil
	case "Nil":
		return in.vm.Nil, nil
	case "True":
		return in.vm.True, nil
	case "False":
		return in.vm.False, nil
	case compiler.ClassLiteral:
		c := in.vm.Classes.Lookup(lit.Value)
		if c == nil {
			return nil, Errorf(ErrUndefinedVariable, "undefined class %s", lit.Value)
		}
		return in.vm.ClassValue(c), nil
	}
	return nil, Errorf(ErrUnexpectedStructure, "unknown literal class %q", lit.Class)
}

func (in *Interpreter) lookup(name string) (*Object, error) {
	switch name {
	case "nil":
		return in.vm.Nil, nil
	case "true":
		return in.vm.True, nil
	case "false":
		return in.vm.False, nil
	}

	frame := in.stack.Top()
	if frame == nil {
		return nil, Errorf(ErrInternal, "no active frame")
	}
	if v, ok := frame.Lookup(name); ok {
		return v, nil
	}
	if (name == "self" || name == "super") && frame.Self() != nil {
		return frame.Self(), nil
	}
	return nil, Errorf(ErrUndefinedVariable, "%s is not defined", name)
}

// ---------------------------------------------------------------------------
// Sends
// ---------------------------------------------------------------------------

func (in *Interpreter) evalSend(s *compiler.Send) (*Object, error) {
	if s.Selector == "from:" && len(s.Args) != 1 {
		return nil, Errorf(ErrUnexpectedStructure, "from: takes exactly one argument, got %d", len(s.Args))
	}

	recv, err := in.eval(s.Receiver)
	if err != nil {
		return nil, err
	}

	switch s.Selector {
	case "new":
		if c, ok := recv.ClassRef(); ok && len(s.Args) == 0 {
			return in.vm.Instantiate(c), nil
		}
	case "from:":
		if c, ok := recv.ClassRef(); ok {
			arg, err := in.eval(s.Args[0])
			if err != nil {
				return nil, err
			}
			return in.vm.Convert(c, arg)
		}
	case "ifTrue:ifFalse:":
		if b, ok := recv.Bool(); ok && len(s.Args) == 2 {
			branch := s.Args[1]
			if b {
				branch = s.Args[0]
			}
			v, err := in.eval(branch)
			if err != nil {
				return nil, err
			}
			if _, isBlock := v.Block(); isBlock {
				return in.CallBlock(v, nil)
			}
			return v, nil
		}
	}

	args := make([]*Object, len(s.Args))
	for i, a := range s.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	var start *VTable
	if v, ok := s.Receiver.(*compiler.Variable); ok && v.Name == "super" {
		frame := in.stack.Top()
		if frame.Class() == nil {
			return nil, Errorf(ErrUndefinedVariable, "super outside a method")
		}
		if frame.Class().Superclass == nil {
			return nil, Errorf(ErrDoNotUnderstand, "%s has no superclass for %s", frame.Class().Name, s.Selector)
		}
		start = frame.Class().Superclass.VTable
	}
	return in.dispatch(recv, s.Selector, args, start)
}

// Send delivers selector to recv with already evaluated arguments.
func (in *Interpreter) Send(recv *Object, selector string, args ...*Object) (*Object, error) {
	return in.dispatch(recv, selector, args, nil)
}

func (in *Interpreter) dispatch(recv *Object, selector string, args []*Object, vt *VTable) (*Object, error) {
	if vt == nil {
		vt = in.vtableFor(recv)
	}
	if id := in.vm.Selectors.Lookup(selector); id >= 0 {
		if m := vt.Lookup(id); m != nil {
			if m.Arity() != len(args) {
				return nil, Errorf(ErrDoNotUnderstand, "%s does not understand %s with %d arguments",
					recv, selector, len(args))
			}
			log.Debugf("send %s to %s", selector, recv)
			return m.Invoke(in, recv, args)
		}
	}

	if recv.kind == KindInstance {
		if len(args) == 0 {
			if v, ok := recv.Attr(selector); ok {
				return v, nil
			}
		}
		if len(args) == 1 && compiler.SelectorArity(selector) == 1 && strings.HasSuffix(selector, ":") {
			recv.SetAttr(strings.TrimSuffix(selector, ":"), args[0])
			return recv, nil
		}
	}
	return nil, Errorf(ErrDoNotUnderstand, "%s does not understand %s", recv, selector)
}

func (in *Interpreter) vtableFor(recv *Object) *VTable {
	if c, ok := recv.ClassRef(); ok {
		return c.ClassVTable
	}
	return recv.class.VTable
}

// CallBlock invokes a block with args bound to its parameters in a fresh
// frame whose lookups fall back to the frame the block captured.
func (in *Interpreter) CallBlock(blk *Object, args []*Object) (*Object, error) {
	bv, ok := blk.Block()
	if !ok {
		return nil, Errorf(ErrType, "%s is not a block", blk)
	}
	if len(args) != bv.Code.Arity() {
		return nil, Errorf(ErrDoNotUnderstand, "block of %d parameters called with %d arguments",
			bv.Code.Arity(), len(args))
	}
	frame := NewBlockFrame(bv.Captured)
	for i, name := range bv.Code.Params {
		frame.Bind(name, args[i])
	}
	return in.evalInFrame(frame, bv.Code.Assigns)
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// ReadLine reads one line from the input collaborator.
func (in *Interpreter) ReadLine() (string, bool, error) {
	line, ok, err := in.input.ReadLine()
	if err != nil {
		return "", false, Errorf(ErrInternal, "reading input: %v", err)
	}
	return line, ok, nil
}

// Write sends text to the output collaborator.
func (in *Interpreter) Write(text string) error {
	if in.output == nil {
		return nil
	}
	if _, err := io.WriteString(in.output, text); err != nil {
		return Errorf(ErrInternal, "writing output: %v", err)
	}
	return nil
}
