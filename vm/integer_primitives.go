package vm

import (
	"math"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Integer Primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerIntegerPrimitives() {
	c := vm.IntegerClass

	// Arithmetic
	c.AddMethod1(vm.Selectors, "plus:", vm.integerOp("plus:", addInt))
	c.AddMethod1(vm.Selectors, "minus:", vm.integerOp("minus:", subInt))
	c.AddMethod1(vm.Selectors, "multiplyBy:", vm.integerOp("multiplyBy:", mulInt))

	c.AddMethod1(vm.Selectors, "divBy:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		a, b, err := integerOperands("divBy:", recv, arg)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, Errorf(ErrValue, "division of %d by zero", a)
		}
		if a == math.MinInt64 && b == -1 {
			return nil, Errorf(ErrValue, "divBy: %d by -1 overflows", a)
		}
		return vm.NewInteger(a / b), nil
	})

	// Comparison
	c.AddMethod1(vm.Selectors, "greaterThan:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		a, b, err := integerOperands("greaterThan:", recv, arg)
		if err != nil {
			return nil, err
		}
		return vm.Bool(a > b), nil
	})

	c.AddMethod1(vm.Selectors, "equalTo:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		a, b, err := integerOperands("equalTo:", recv, arg)
		if err != nil {
			return nil, err
		}
		return vm.Bool(a == b), nil
	})

	// Conversion
	c.AddMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
		n, _ := recv.Int()
		return vm.NewString(strconv.FormatInt(n, 10)), nil
	})

	c.AddMethod0(vm.Selectors, "asInteger", func(in *Interpreter, recv *Object) (*Object, error) {
		return recv, nil
	})

	c.AddMethod0(vm.Selectors, "isInteger", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.True, nil
	})

	// timesRepeat: passes the 1-based iteration number to one-parameter blocks.
	c.AddMethod1(vm.Selectors, "timesRepeat:", func(in *Interpreter, recv *Object, block *Object) (*Object, error) {
		n, _ := recv.Int()
		bv, ok := block.Block()
		if !ok {
			return nil, Errorf(ErrType, "timesRepeat: expects a block, got %s", block)
		}
		for i := int64(1); i <= n; i++ {
			var args []*Object
			if bv.Code.Arity() == 1 {
				args = []*Object{vm.NewInteger(i)}
			}
			if _, err := in.CallBlock(block, args); err != nil {
				return nil, err
			}
		}
		return vm.Nil, nil
	})
}

// integerOp wraps a checked operation; ok false means the result does not
// fit in 64 bits.
func (vm *VM) integerOp(selector string, op func(a, b int64) (int64, bool)) Method1Func {
	return func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		a, b, err := integerOperands(selector, recv, arg)
		if err != nil {
			return nil, err
		}
		r, ok := op(a, b)
		if !ok {
			return nil, Errorf(ErrValue, "%d %s %d overflows", a, selector, b)
		}
		return vm.NewInteger(r), nil
	}
}

func addInt(a, b int64) (int64, bool) {
	r := a + b
	return r, (r > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	return r, (r < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return r, false
	}
	return r, true
}

func integerOperands(selector string, recv, arg *Object) (int64, int64, error) {
	a, ok := recv.Int()
	if !ok {
		return 0, 0, Errorf(ErrType, "%s receiver %s is not an Integer", selector, recv)
	}
	b, ok := arg.Int()
	if !ok {
		return 0, 0, Errorf(ErrType, "%s argument %s is not an Integer", selector, arg)
	}
	return a, b, nil
}

// parseInteger converts decimal text (surrounding blanks and a sign allowed)
// to an Integer, or nil when the text is not a number.
func (vm *VM) parseInteger(s string) *Object {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return vm.Nil
	}
	return vm.NewInteger(n)
}
