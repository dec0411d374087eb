package vm

import "strings"

// ---------------------------------------------------------------------------
// String Primitives
// ---------------------------------------------------------------------------

func (vm *VM) registerStringPrimitives() {
	c := vm.StringClass

	c.AddMethod1(vm.Selectors, "equalTo:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		a, _ := recv.Str()
		b, ok := arg.Str()
		if !ok {
			return nil, Errorf(ErrType, "equalTo: argument %s is not a String", arg)
		}
		return vm.Bool(a == b), nil
	})

	c.AddMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
		return recv, nil
	})

	// asInteger answers nil for text that is not a decimal number.
	c.AddMethod0(vm.Selectors, "asInteger", func(in *Interpreter, recv *Object) (*Object, error) {
		s, _ := recv.Str()
		return vm.parseInteger(s), nil
	})

	c.AddMethod1(vm.Selectors, "concatenateWith:", func(in *Interpreter, recv *Object, arg *Object) (*Object, error) {
		a, _ := recv.Str()
		b, ok := arg.Str()
		if !ok {
			return vm.Nil, nil
		}
		return vm.NewString(a + b), nil
	})

	c.AddMethod2(vm.Selectors, "startsWith:endsBefore:", func(in *Interpreter, recv *Object, from, to *Object) (*Object, error) {
		s, _ := recv.Str()
		start, ok1 := from.Int()
		end, ok2 := to.Int()
		if !ok1 || !ok2 {
			return nil, Errorf(ErrType, "startsWith:endsBefore: expects Integer bounds, got %s and %s", from, to)
		}
		if start <= 0 || end <= 0 {
			return vm.Nil, nil
		}
		return vm.NewString(substring(s, start, end)), nil
	})

	c.AddMethod0(vm.Selectors, "print", func(in *Interpreter, recv *Object) (*Object, error) {
		s, _ := recv.Str()
		if err := in.Write(Unescape(s)); err != nil {
			return nil, err
		}
		return recv, nil
	})

	c.AddMethod0(vm.Selectors, "read", vm.readLine)
	c.AddClassMethod0(vm.Selectors, "read", vm.readLine)

	c.AddMethod0(vm.Selectors, "isString", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.True, nil
	})
}

// readLine answers the next input line, or nil at end of input.
func (vm *VM) readLine(in *Interpreter, _ *Object) (*Object, error) {
	line, ok, err := in.ReadLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return vm.Nil, nil
	}
	return vm.NewString(line), nil
}

// substring returns the characters at 1-based positions [start, end).
func substring(s string, start, end int64) string {
	runes := []rune(s)
	n := int64(len(runes))
	if start > n || end <= start {
		return ""
	}
	if end > n+1 {
		end = n + 1
	}
	return string(runes[start-1 : end-1])
}

// Unescape resolves the backslash escapes of SOL25 string literals.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 == len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
