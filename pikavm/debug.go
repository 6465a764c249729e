package pikavm

import (
	"slices"
	"sort"
)

// breakpoints and watches; the VM only keeps the sets, a "run until
// breakpoint" mode is a host loop checking CurrentLine before each Step

func (v *VM) AddBreakpoint(line int) {
	v.breakpoints[line] = true
}

func (v *VM) RemoveBreakpoint(line int) {
	delete(v.breakpoints, line)
}

// ToggleBreakpoint reports whether the breakpoint is set afterwards.
func (v *VM) ToggleBreakpoint(line int) bool {
	if v.breakpoints[line] {
		delete(v.breakpoints, line)
		return false
	}
	v.breakpoints[line] = true
	return true
}

func (v *VM) HasBreakpoint(line int) bool {
	return v.breakpoints[line]
}

func (v *VM) Breakpoints() []int {
	ret := make([]int, 0, len(v.breakpoints))
	for line := range v.breakpoints {
		ret = append(ret, line)
	}
	sort.Ints(ret)
	return ret
}

func (v *VM) AddWatch(name string) {
	if slices.Contains(v.watches, name) {
		return
	}
	v.watches = append(v.watches, name)
}

func (v *VM) RemoveWatch(name string) {
	v.watches = slices.DeleteFunc(v.watches, func(w string) bool {
		return w == name
	})
}

// WatchValue reports a watched name; an unbound name is still reported,
// with Bound false.
type WatchValue struct {
	Name  string
	Value Value
	Bound bool
}

func (v *VM) WatchValues() []WatchValue {
	env := v.innermostEnv()
	ret := make([]WatchValue, 0, len(v.watches))
	for _, name := range v.watches {
		val, ok := env.Get(name)
		ret = append(ret, WatchValue{
			Name:  name,
			Value: val,
			Bound: ok,
		})
	}
	return ret
}

func (v *VM) innermostEnv() *Env {
	if len(v.frames) > 0 {
		return v.frames[len(v.frames)-1].Env
	}
	return v.globals
}

// Variables is a read-only snapshot of the innermost active scope's own
// bindings. It is pure: calling it twice without stepping yields equal maps.
func (v *VM) Variables() map[string]Value {
	return v.innermostEnv().Bindings()
}

// StackEntry describes one active function frame for host display.
type StackEntry struct {
	Name     string
	CallLine int
	Locals   map[string]Value
}

// CallStack lists the active function frames, outermost first.
func (v *VM) CallStack() []StackEntry {
	var ret []StackEntry
	for _, frame := range v.frames {
		if frame.Kind != FrameFunc {
			continue
		}
		ret = append(ret, StackEntry{
			Name:     frame.FnName,
			CallLine: frame.CallLine,
			Locals:   frame.Env.Bindings(),
		})
	}
	return ret
}
