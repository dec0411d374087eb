package vm

// ---------------------------------------------------------------------------
// Boolean Primitives (True, False)
// ---------------------------------------------------------------------------

func (vm *VM) registerBooleanPrimitives() {
	for _, c := range []*Class{vm.TrueClass, vm.FalseClass} {
		c.AddMethod0(vm.Selectors, "not", func(in *Interpreter, recv *Object) (*Object, error) {
			b, _ := recv.Bool()
			return vm.Bool(!b), nil
		})

		c.AddMethod1(vm.Selectors, "and:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
			a, _ := recv.Bool()
			b, err := vm.boolOperand(in, "and:", arg)
			if err != nil {
				return nil, err
			}
			return vm.Bool(a && b), nil
		})

		c.AddMethod1(vm.Selectors, "or:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
			a, _ := recv.Bool()
			b, err := vm.boolOperand(in, "or:", arg)
			if err != nil {
				return nil, err
			}
			return vm.Bool(a || b), nil
		})

		c.AddMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
			return vm.NewString(recv.Payload().String()), nil
		})

		// Reached only through Send; literal sends are branched lazily by the
		// interpreter before arguments are evaluated.
		c.AddMethod2(vm.Selectors, "ifTrue:ifFalse:", func(in *Interpreter, recv *Object, onTrue, onFalse *Object) (*Object, error) {
			b, _ := recv.Bool()
			chosen := onFalse
			if b {
				chosen = onTrue
			}
			if _, ok := chosen.Block(); ok {
				return in.CallBlock(chosen, nil)
			}
			return chosen, nil
		})
	}
}

// boolOperand evaluates a boolean argument, invoking it first if it is a block.
func (vm *VM) boolOperand(in *Interpreter, selector string, arg *Object) (bool, error) {
	if _, ok := arg.Block(); ok {
		v, err := in.CallBlock(arg, nil)
		if err != nil {
			return false, err
		}
		arg = v
	}
	b, ok := arg.Bool()
	if !ok {
		return false, Errorf(ErrType, "%s expects a boolean, got %s", selector, arg)
	}
	return b, nil
}
