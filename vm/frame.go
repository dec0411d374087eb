package vm

// ---------------------------------------------------------------------------
// Frames: one activation's local bindings
// ---------------------------------------------------------------------------

// Frame binds local names for one method or block activation.
//
// Lookup resolves in the frame itself and then in the frame a block
// captured, never in the caller. Binding always writes the frame itself,
// so a block cannot rebind its creator's locals.
type Frame struct {
	Name string // selector, "block", or "run"

	vars  map[string]*Object
	outer *Frame // captured frame for blocks, nil for methods
	self  *Object
	class *Class // class defining the running method, for super
}

// NewMethodFrame creates the frame for a method activation on self.
func NewMethodFrame(name string, self *Object, class *Class) *Frame {
	f := &Frame{
		Name:  name,
		vars:  make(map[string]*Object),
		self:  self,
		class: class,
	}
	if self != nil {
		f.vars["self"] = self
	}
	return f
}

// NewBlockFrame creates the frame for a block invocation. self and the
// defining class are inherited from the captured frame.
func NewBlockFrame(captured *Frame) *Frame {
	f := &Frame{
		Name:  "block",
		vars:  make(map[string]*Object),
		outer: captured,
	}
	if captured != nil {
		f.self = captured.self
		f.class = captured.class
	}
	return f
}

// Lookup resolves name in this frame, then along captured frames.
func (f *Frame) Lookup(name string) (*Object, bool) {
	for cur := f; cur != nil; cur = cur.outer {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Bind sets name in this frame, replacing any previous binding.
func (f *Frame) Bind(name string, v *Object) {
	f.vars[name] = v
}

// Self returns the receiver of the enclosing method, or nil.
func (f *Frame) Self() *Object { return f.self }

// Class returns the class defining the enclosing method, or nil.
func (f *Frame) Class() *Class { return f.class }

// Len returns the number of names bound directly in the frame.
func (f *Frame) Len() int { return len(f.vars) }

// ---------------------------------------------------------------------------
// Stack
// ---------------------------------------------------------------------------

// DefaultMaxDepth bounds the number of live frames.
const DefaultMaxDepth = 10000

// Stack is the LIFO stack of active frames.
type Stack struct {
	frames   []*Frame
	maxDepth int
}

// NewStack creates an empty stack. maxDepth <= 0 selects DefaultMaxDepth.
func NewStack(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{maxDepth: maxDepth}
}

// Push activates f. It fails once the depth limit is reached.
func (s *Stack) Push(f *Frame) error {
	if len(s.frames) >= s.maxDepth {
		return Errorf(ErrInternal, "stack overflow: more than %d frames", s.maxDepth)
	}
	s.frames = append(s.frames, f)
	return nil
}

// Pop discards the top frame.
func (s *Stack) Pop() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Top returns the current frame, or nil when the stack is empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of active frames.
func (s *Stack) Depth() int { return len(s.frames) }

// Names returns the frame names, innermost first.
func (s *Stack) Names() []string {
	out := make([]string, 0, len(s.frames))
	for i := len(s.frames) - 1; i >= 0; i-- {
		out = append(out, s.frames[i].Name)
	}
	return out
}
