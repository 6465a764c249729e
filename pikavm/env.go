package pikavm

// Env is one scope in the scope chain: function-local first, global last.
type Env struct {
	Parent *Env
	Vars   map[string]Value
}

func (e *Env) Get(name string) (Value, bool) {
	if e == nil {
		return Value{}, false
	}
	if v, ok := e.Vars[name]; ok {
		return v, true
	}
	if e.Parent != nil {
		return e.Parent.Get(name)
	}
	return Value{}, false
}

func (e *Env) Def(name string, val Value) {
	if e.Vars == nil {
		e.Vars = make(map[string]Value)
	}
	e.Vars[name] = val
}

// Set updates the nearest existing binding; when the name is bound nowhere
// in the chain it reports false.
func (e *Env) Set(name string, val Value) bool {
	if _, ok := e.Vars[name]; ok {
		e.Vars[name] = val
		return true
	}
	if e.Parent != nil {
		return e.Parent.Set(name, val)
	}
	return false
}

func (e *Env) NewChild() *Env {
	return &Env{
		Parent: e,
	}
}

// Bindings returns a copy of this scope's own bindings, not the chain's.
func (e *Env) Bindings() map[string]Value {
	if e == nil {
		return map[string]Value{}
	}
	ret := make(map[string]Value, len(e.Vars))
	for name, val := range e.Vars {
		ret[name] = val
	}
	return ret
}
