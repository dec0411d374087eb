package vm

import (
	"sort"

	"github.com/chazu/sol25/compiler"
)

// ---------------------------------------------------------------------------
// Class: built-in and user classes
// ---------------------------------------------------------------------------

// Class is a SOL25 class. Built-in classes carry primitives in their
// vtables; user classes carry compiled methods and inherit primitives
// through the vtable parent chain.
type Class struct {
	Name        string
	Superclass  *Class  // nil for Object
	VTable      *VTable // instance-side methods
	ClassVTable *VTable // class-side methods (String read, ...)

	builtin bool
	kind    Kind            // representation of built-in instances
	source  *compiler.Class // nil for built-ins
	value   *Object         // cached class value
}

// IsBuiltin returns true for the classes the VM bootstraps itself.
func (c *Class) IsBuiltin() bool { return c.builtin }

// Source returns the declaration of a user class, or nil for built-ins.
func (c *Class) Source() *compiler.Class { return c.source }

// IsSubclassOf returns true if c is a subclass of other (or is the same class).
func (c *Class) IsSubclassOf(other *Class) bool {
	for current := c; current != nil; current = current.Superclass {
		if current == other {
			return true
		}
	}
	return false
}

// BuiltinAncestor returns the nearest built-in class in c's chain
// (c itself if it is built-in).
func (c *Class) BuiltinAncestor() *Class {
	for current := c; current != nil; current = current.Superclass {
		if current.builtin {
			return current
		}
	}
	return nil
}

// AddMethod registers a method on this class.
func (c *Class) AddMethod(selectors *SelectorTable, name string, method Method) {
	c.VTable.AddMethod(selectors.Intern(name), method)
}

// AddMethod0 registers a zero-argument method on this class.
func (c *Class) AddMethod0(selectors *SelectorTable, name string, fn Method0Func) {
	c.AddMethod(selectors, name, NewMethod0(name, fn))
}

// AddMethod1 registers a one-argument method on this class.
func (c *Class) AddMethod1(selectors *SelectorTable, name string, fn Method1Func) {
	c.AddMethod(selectors, name, NewMethod1(name, fn))
}

// AddMethod2 registers a two-argument method on this class.
func (c *Class) AddMethod2(selectors *SelectorTable, name string, fn Method2Func) {
	c.AddMethod(selectors, name, NewMethod2(name, fn))
}

// AddClassMethod0 registers a zero-argument class-side method.
func (c *Class) AddClassMethod0(selectors *SelectorTable, name string, fn Method0Func) {
	c.ClassVTable.AddMethod(selectors.Intern(name), NewMethod0(name, fn))
}

// AddClassMethod1 registers a one-argument class-side method.
func (c *Class) AddClassMethod1(selectors *SelectorTable, name string, fn Method1Func) {
	c.ClassVTable.AddMethod(selectors.Intern(name), NewMethod1(name, fn))
}

// ---------------------------------------------------------------------------
// ClassTable: per-VM class registry
// ---------------------------------------------------------------------------

// ClassTable manages registered classes by name.
type ClassTable struct {
	classes map[string]*Class
}

// NewClassTable creates a new empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*Class)}
}

// Register adds a class to the table.
// Returns the previous class with this name, or nil.
func (ct *ClassTable) Register(c *Class) *Class {
	old := ct.classes[c.Name]
	ct.classes[c.Name] = c
	return old
}

// Lookup finds a class by name.
func (ct *ClassTable) Lookup(name string) *Class {
	return ct.classes[name]
}

// Has returns true if a class with this name is registered.
func (ct *ClassTable) Has(name string) bool {
	_, ok := ct.classes[name]
	return ok
}

// All returns all registered classes sorted by name.
func (ct *ClassTable) All() []*Class {
	out := make([]*Class, 0, len(ct.classes))
	for _, c := range ct.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	return len(ct.classes)
}
