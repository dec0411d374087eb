package vm

// VTable holds the method dispatch table for a class.
//
// Methods are stored in a slice indexed by selector ID. Inheritance is
// handled by walking the parent chain when a method is not found locally,
// so a user class overrides any primitive it inherits.
type VTable struct {
	class   *Class
	parent  *VTable
	methods []Method
}

// NewVTable creates an empty vtable for class with the given parent.
func NewVTable(class *Class, parent *VTable) *VTable {
	return &VTable{class: class, parent: parent}
}

// Lookup finds a method by selector ID, walking the inheritance chain.
// Returns nil if no method is found.
func (vt *VTable) Lookup(selector int) Method {
	for v := vt; v != nil; v = v.parent {
		if m := v.LookupLocal(selector); m != nil {
			return m
		}
	}
	return nil
}

// LookupLocal finds a method by selector ID in this vtable only.
func (vt *VTable) LookupLocal(selector int) Method {
	if selector >= 0 && selector < len(vt.methods) {
		return vt.methods[selector]
	}
	return nil
}

// AddMethod adds or replaces a method at the given selector ID.
func (vt *VTable) AddMethod(selector int, method Method) {
	if selector >= len(vt.methods) {
		grown := make([]Method, selector+1)
		copy(grown, vt.methods)
		vt.methods = grown
	}
	vt.methods[selector] = method
}

// HasMethod returns true if this vtable (not parents) has a method for selector.
func (vt *VTable) HasMethod(selector int) bool {
	return vt.LookupLocal(selector) != nil
}

// Parent returns the parent vtable.
func (vt *VTable) Parent() *VTable { return vt.parent }

// SetParent sets the parent vtable.
func (vt *VTable) SetParent(parent *VTable) { vt.parent = parent }

// Class returns the class this vtable belongs to.
func (vt *VTable) Class() *Class { return vt.class }
