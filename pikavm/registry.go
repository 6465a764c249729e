package pikavm

import "fmt"

// NativeFunc is a host-supplied command or sensor callable from language
// code by name.
type NativeFunc struct {
	Name string
	Func func(args []Value) (Value, error)
}

func (n NativeFunc) Call(args []Value) (Value, error) {
	if n.Func == nil {
		return Value{}, fmt.Errorf("native function %s is missing", n.Name)
	}
	return n.Func(args)
}

// Registry is the host-populated table of native functions. The interpreter
// resolves call names against it before user-defined functions.
type Registry struct {
	funcs map[string]NativeFunc
}

func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]NativeFunc),
	}
}

func (r *Registry) Register(fn NativeFunc) {
	r.funcs[fn.Name] = fn
}

func (r *Registry) Get(name string) (NativeFunc, bool) {
	if r == nil {
		return NativeFunc{}, false
	}
	fn, ok := r.funcs[name]
	return fn, ok
}
