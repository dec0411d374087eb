package vm

import (
	"strconv"

	"github.com/chazu/sol25/compiler"
)

// Kind identifies the representation of an Object.
//
// Dispatch does not switch on Kind (it goes through the receiver's class),
// but primitives use it to check operand types.
type Kind uint8

const (
	KindNil Kind = iota
	KindTrue
	KindFalse
	KindInteger
	KindString
	KindBlock
	KindInstance // Object and user class instances
	KindClass    // a class used as a message receiver
)

var kindNames = [...]string{
	KindNil:      "Nil",
	KindTrue:     "True",
	KindFalse:    "False",
	KindInteger:  "Integer",
	KindString:   "String",
	KindBlock:    "Block",
	KindInstance: "Instance",
	KindClass:    "Class",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Object is a SOL25 runtime value.
//
// Integers, strings and blocks are immutable once created; every operation
// returns a fresh Object. Nil, True and False are singletons owned by the VM
// and compared by identity. Instances carry an attribute map and, when their
// class descends from a built-in value class, a primitive payload.
type Object struct {
	kind  Kind
	class *Class

	num   int64
	str   string
	block *BlockValue
	ref   *Class // KindClass: the class denoted

	attrs   map[string]*Object
	payload *Object
}

// BlockValue is a block literal closed over the frame where it was evaluated.
type BlockValue struct {
	Code     *compiler.Block
	Captured *Frame
}

// Kind returns the representation kind of o.
func (o *Object) Kind() Kind { return o.kind }

// Class returns the class o is an instance of.
func (o *Object) Class() *Class { return o.class }

// IsNil returns true if o is the nil singleton.
func (o *Object) IsNil() bool { return o.kind == KindNil }

// IsBool returns true if o is the true or false singleton.
func (o *Object) IsBool() bool { return o.kind == KindTrue || o.kind == KindFalse }

// Payload returns the primitive value backing o: o itself for built-in values,
// the payload for instances of classes derived from a built-in, nil otherwise.
func (o *Object) Payload() *Object {
	if o.kind == KindInstance {
		return o.payload
	}
	return o
}

// Int returns the integer value of o (or of its payload).
func (o *Object) Int() (int64, bool) {
	p := o.Payload()
	if p == nil || p.kind != KindInteger {
		return 0, false
	}
	return p.num, true
}

// Str returns the string value of o (or of its payload).
func (o *Object) Str() (string, bool) {
	p := o.Payload()
	if p == nil || p.kind != KindString {
		return "", false
	}
	return p.str, true
}

// Block returns the block value of o (or of its payload).
func (o *Object) Block() (*BlockValue, bool) {
	p := o.Payload()
	if p == nil || p.kind != KindBlock {
		return nil, false
	}
	return p.block, true
}

// Bool reports the truth value of a boolean (or boolean payload).
func (o *Object) Bool() (value bool, ok bool) {
	p := o.Payload()
	if p == nil {
		return false, false
	}
	switch p.kind {
	case KindTrue:
		return true, true
	case KindFalse:
		return false, true
	}
	return false, false
}

// ClassRef returns the class denoted by a class value.
func (o *Object) ClassRef() (*Class, bool) {
	if o.kind != KindClass {
		return nil, false
	}
	return o.ref, true
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// Attr returns an instance attribute.
func (o *Object) Attr(name string) (*Object, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

// SetAttr sets an instance attribute. Only instances carry attributes.
func (o *Object) SetAttr(name string, v *Object) bool {
	if o.kind != KindInstance {
		return false
	}
	if o.attrs == nil {
		o.attrs = make(map[string]*Object)
	}
	o.attrs[name] = v
	return true
}

func (o *Object) copyAttrsFrom(src *Object) {
	for k, v := range src.attrs {
		o.SetAttr(k, v)
	}
}

// String renders o for diagnostics and tests.
func (o *Object) String() string {
	switch o.kind {
	case KindNil:
		return "nil"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindInteger:
		return strconv.FormatInt(o.num, 10)
	case KindString:
		return strconv.Quote(o.str)
	case KindBlock:
		return "a Block"
	case KindClass:
		return o.ref.Name
	}
	if o.payload != nil {
		return "a " + o.class.Name + "(" + o.payload.String() + ")"
	}
	return "a " + o.class.Name
}
