package vm

// ---------------------------------------------------------------------------
// Object Primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerObjectPrimitives() {
	c := vm.ObjectClass

	c.AddMethod1(vm.Selectors, "identicalTo:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		return vm.Bool(recv == arg), nil
	})

	// equalTo: defaults to identity; value classes override it.
	c.AddMethod1(vm.Selectors, "equalTo:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		return vm.Bool(recv == arg), nil
	})

	c.AddMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.NewString(""), nil
	})

	for _, name := range []string{"isInteger", "isString", "isBlock", "isNil"} {
		c.AddMethod0(vm.Selectors, name, func(in *Interpreter, recv *Object) (*Object, error) {
			return vm.False, nil
		})
	}

	// Class values compare by identity as well.
	c.AddClassMethod1(vm.Selectors, "identicalTo:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		return vm.Bool(recv == arg), nil
	})
	c.AddClassMethod1(vm.Selectors, "equalTo:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		return vm.Bool(recv == arg), nil
	})
	c.AddClassMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.NewString(recv.ref.Name), nil
	})
}

// ---------------------------------------------------------------------------
// Nil Primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerNilPrimitives() {
	c := vm.NilClass

	c.AddMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.NewString("nil"), nil
	})

	c.AddMethod0(vm.Selectors, "isNil", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.True, nil
	})
}
