package expr

// Var is a named variable slot in a Context
type Var struct {
	Name  string
	Value interface{}
}

type frame struct {
	elem  interface{}
	index int
}

// Context is the mutable environment an expression evaluates against:
// variable bindings plus the stack of elements currently being processed.
//
// A Context is not safe for concurrent use. Work that runs on another
// goroutine gets its own copy from NewComputeContext.
type Context struct {
	vars   map[string]*Var
	frames []frame
}

// NewContext creates an empty context
func NewContext() *Context {
	return &Context{vars: make(map[string]*Var)}
}

// NewComputeContext returns an independent copy for use by one concurrent
// worker. Variables are copied into fresh slots holding the current values;
// the element stack starts empty. Writes to either context are not visible
// to the other.
func (c *Context) NewComputeContext() *Context {
	clone := &Context{vars: make(map[string]*Var, len(c.vars))}
	for name, v := range c.vars {
		clone.vars[name] = &Var{Name: name, Value: v.Value}
	}
	return clone
}

// Set creates or updates a variable and returns its slot
func (c *Context) Set(name string, value interface{}) *Var {
	if v, ok := c.vars[name]; ok {
		v.Value = value
		return v
	}
	v := &Var{Name: name, Value: value}
	c.vars[name] = v
	return v
}

// Get returns the value of a variable
func (c *Context) Get(name string) (interface{}, bool) {
	v, ok := c.vars[name]
	if !ok {
		return nil, false
	}
	return v.Value, true
}

// Var returns the slot of a variable, or nil if it is not defined
func (c *Context) Var(name string) *Var {
	return c.vars[name]
}

// Push makes elem the current element, at 1-based position index
func (c *Context) Push(elem interface{}, index int) {
	c.frames = append(c.frames, frame{elem: elem, index: index})
}

// Pop restores the previous current element
func (c *Context) Pop() {
	if len(c.frames) > 0 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

// Depth returns the number of pushed elements
func (c *Context) Depth() int {
	return len(c.frames)
}

func (c *Context) currentElement() interface{} {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1].elem
}

func (c *Context) currentIndex() int {
	if len(c.frames) == 0 {
		return 0
	}
	return c.frames[len(c.frames)-1].index
}

// binding is the per-context state of a compiled expression
type binding struct {
	ctx   *Context
	slots map[string]*Var // resolved variable slots, valid for ctx only
}

func newBinding(ctx *Context) *binding {
	return &binding{ctx: ctx, slots: make(map[string]*Var)}
}

// slot resolves a variable once per binding. With create set, a missing
// variable is defined in the bound context.
func (b *binding) slot(name string, create bool) *Var {
	if v, ok := b.slots[name]; ok {
		return v
	}
	v := b.ctx.Var(name)
	if v == nil {
		if !create {
			return nil
		}
		v = b.ctx.Set(name, nil)
	}
	b.slots[name] = v
	return v
}
