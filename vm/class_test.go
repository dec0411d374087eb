package vm

import (
	"testing"
)

// ---------------------------------------------------------------------------
// Bootstrap tests
// ---------------------------------------------------------------------------

func TestBootstrapClasses(t *testing.T) {
	vm := NewVM()
	for _, name := range []string{"Object", "Nil", "True", "False", "Integer", "String", "Block"} {
		c := vm.Classes.Lookup(name)
		if c == nil {
			t.Fatalf("class %s not registered", name)
		}
		if !c.IsBuiltin() || c.Source() != nil {
			t.Errorf("%s should be a built-in without source", name)
		}
		if name != "Object" && c.Superclass != vm.ObjectClass {
			t.Errorf("%s superclass = %v, want Object", name, c.Superclass)
		}
		if c.VTable.Class() != c {
			t.Errorf("%s VTable.Class() mismatch", name)
		}
	}
	if vm.Classes.Len() != 7 {
		t.Errorf("Classes.Len() = %d, want 7", vm.Classes.Len())
	}
	if vm.ObjectClass.Superclass != nil {
		t.Error("Object should be the root")
	}
}

func TestSingletonsArePerVM(t *testing.T) {
	a, b := NewVM(), NewVM()
	if a.Nil == b.Nil || a.True == b.True {
		t.Error("VMs must not share singletons")
	}
	if a.Bool(true) != a.True || a.Bool(false) != a.False {
		t.Error("Bool should answer the singletons")
	}
	if a.ClassValue(a.IntegerClass) != a.ClassValue(a.IntegerClass) {
		t.Error("class values should be cached")
	}
}

// ---------------------------------------------------------------------------
// VTable and selector tests
// ---------------------------------------------------------------------------

func TestVTableInheritance(t *testing.T) {
	vm := NewVM()
	sel := vm.Selectors.Intern("asString")

	if vm.IntegerClass.VTable.Parent() != vm.ObjectClass.VTable {
		t.Error("Integer vtable parent should be Object's")
	}
	if m := vm.IntegerClass.VTable.Lookup(sel); m == nil || m.Arity() != 0 {
		t.Error("Integer should define asString")
	}
	identical := vm.Selectors.Intern("identicalTo:")
	if vm.IntegerClass.VTable.HasMethod(identical) {
		t.Error("identicalTo: should be inherited, not local")
	}
	if m := vm.IntegerClass.VTable.Lookup(identical); m == nil || m.Name() != "identicalTo:" {
		t.Error("identicalTo: should be found through the parent chain")
	}
	if vm.IntegerClass.VTable.Lookup(vm.Selectors.Intern("noSuchThing")) != nil {
		t.Error("unknown selector should not resolve")
	}
}

func TestVTableOverride(t *testing.T) {
	vm := NewVM()
	sub := &Class{Name: "Sub", Superclass: vm.IntegerClass}
	vm.linkClass(sub)
	sub.AddMethod0(vm.Selectors, "asString", func(in *Interpreter, recv *Object) (*Object, error) {
		return vm.NewString("sub"), nil
	})

	sel := vm.Selectors.Lookup("asString")
	m := sub.VTable.Lookup(sel)
	got, err := m.Invoke(nil, vm.NewInteger(1), nil)
	if err != nil || got.String() != `"sub"` {
		t.Errorf("override = %v, %v", got, err)
	}
	if !sub.IsSubclassOf(vm.ObjectClass) || vm.ObjectClass.IsSubclassOf(sub) {
		t.Error("IsSubclassOf is wrong")
	}
	if sub.BuiltinAncestor() != vm.IntegerClass {
		t.Errorf("BuiltinAncestor = %v", sub.BuiltinAncestor())
	}
}

func TestSelectorTable(t *testing.T) {
	st := NewSelectorTable()
	a := st.Intern("plus:")
	b := st.Intern("minus:")
	if a == b || st.Intern("plus:") != a {
		t.Error("interning should be stable and distinct")
	}
	if st.Lookup("plus:") != a || st.Lookup("unknown") != -1 {
		t.Error("Lookup is wrong")
	}
	if st.Name(b) != "minus:" || st.Name(99) != "" || st.Name(-1) != "" {
		t.Error("Name is wrong")
	}
	if st.Len() != 2 {
		t.Errorf("Len = %d", st.Len())
	}
}

func TestClassTableAll(t *testing.T) {
	ct := NewClassTable()
	ct.Register(&Class{Name: "B"})
	ct.Register(&Class{Name: "A"})
	if old := ct.Register(&Class{Name: "A"}); old == nil {
		t.Error("Register should return the replaced class")
	}
	all := ct.All()
	if len(all) != 2 || all[0].Name != "A" || all[1].Name != "B" {
		t.Errorf("All = %v", all)
	}
	if !ct.Has("A") || ct.Has("C") {
		t.Error("Has is wrong")
	}
}

func TestLoadedClassesLinkToParents(t *testing.T) {
	vm := loadProgram(t, program(
		// Declared child first.
		class("C", "B"),
		class("B", "A"),
		class("A", "String"),
		mainClass(),
	))
	c := vm.Classes.Lookup("C")
	if c.Superclass.Name != "B" || c.Superclass.Superclass.Name != "A" {
		t.Fatalf("chain = %s <- %s", c.Superclass.Name, c.Superclass.Superclass.Name)
	}
	if c.VTable.Parent() != c.Superclass.VTable || c.ClassVTable.Parent() != c.Superclass.ClassVTable {
		t.Error("vtables not chained to the superclass")
	}
	if c.BuiltinAncestor() != vm.StringClass {
		t.Errorf("BuiltinAncestor = %s", c.BuiltinAncestor().Name)
	}
	if got := vm.Instantiate(c).String(); got != `a C("")` {
		t.Errorf("C new = %s", got)
	}
	if vm.Program() == nil {
		t.Error("Program() should return the loaded program")
	}
}
