package vm

import "strings"

// maxValueArity is the largest value:...: selector registered on Block.
const maxValueArity = 8

// ---------------------------------------------------------------------------
// Block Primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerBlockPrimitives() {
	c := vm.BlockClass

	for n := 0; n <= maxValueArity; n++ {
		name := ValueSelector(n)
		c.AddMethod(vm.Selectors, name, NewPrimitiveMethod(name, n, func(in *Interpreter, recv *Object, args []*Object) (*Object, error) {
			return in.CallBlock(recv, args)
		}))
	}

	// whileTrue: evaluates the body while the receiver block answers true.
	c.AddMethod1(vm.Selectors, "whileTrue:", func(in *Interpreter, recv *Object, body *Object) (*Object, error) {
		if _, ok := body.Block(); !ok {
			return nil, Errorf(ErrType, "whileTrue: expects a block, got %s", body)
		}
		for {
			cond, err := in.CallBlock(recv, nil)
			if err != nil {
				return nil, err
			}
			b, ok := cond.Bool()
			if !ok {
				return nil, Errorf(ErrType, "whileTrue: condition answered %s", cond)
			}
			if !b {
				return vm.Nil, nil
			}
			if _, err := in.CallBlock(body, nil); err != nil {
				return nil, err
			}
		}
	})

	c.AddMethod0(vm.Selectors, "isBlock", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.True, nil
	})
}

// ValueSelector returns the selector invoking a block of n parameters:
// "value", "value:", "value:value:", ...
func ValueSelector(n int) string {
	if n == 0 {
		return "value"
	}
	return strings.Repeat("value:", n)
}
