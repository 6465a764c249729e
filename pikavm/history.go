package pikavm

// snapshot is an immutable capture of the full pre-step VM state. Restoring
// one makes its copies live; deeper history entries own their own copies.
type snapshot struct {
	frames    []*Frame
	globals   *Env
	outputLen int
	stepCount int
	rngState  []byte
}

// copier deep-copies the reachable object graph while preserving identity:
// two frames sharing an environment, or two variables aliasing one array,
// still share after the copy.
type copier struct {
	envs    map[*Env]*Env
	arrays  map[*Array]*Array
	objects map[*Object]*Object
}

func newCopier() *copier {
	return &copier{
		envs:    make(map[*Env]*Env),
		arrays:  make(map[*Array]*Array),
		objects: make(map[*Object]*Object),
	}
}

func (c *copier) copyEnv(env *Env) *Env {
	if env == nil {
		return nil
	}
	if copied, ok := c.envs[env]; ok {
		return copied
	}
	copied := &Env{}
	c.envs[env] = copied
	copied.Parent = c.copyEnv(env.Parent)
	if env.Vars != nil {
		copied.Vars = make(map[string]Value, len(env.Vars))
		for name, val := range env.Vars {
			copied.Vars[name] = c.copyValue(val)
		}
	}
	return copied
}

func (c *copier) copyValue(val Value) Value {
	switch val.Kind {

	case KindArray:
		if copied, ok := c.arrays[val.Arr]; ok {
			val.Arr = copied
			return val
		}
		copied := &Array{}
		c.arrays[val.Arr] = copied
		copied.Elements = make([]Value, len(val.Arr.Elements))
		for i, elem := range val.Arr.Elements {
			copied.Elements[i] = c.copyValue(elem)
		}
		val.Arr = copied
		return val

	case KindObject:
		if copied, ok := c.objects[val.Obj]; ok {
			val.Obj = copied
			return val
		}
		copied := &Object{
			Keys:   append([]string(nil), val.Obj.Keys...),
			Fields: make(map[string]Value, len(val.Obj.Fields)),
		}
		c.objects[val.Obj] = copied
		for key, fieldVal := range val.Obj.Fields {
			copied.Fields[key] = c.copyValue(fieldVal)
		}
		val.Obj = copied
		return val
	}

	// numbers, strings, booleans, none and functions copy by value;
	// function bodies are immutable AST
	return val
}

func (c *copier) copyFrame(frame *Frame) *Frame {
	copied := *frame
	copied.Env = c.copyEnv(frame.Env)
	if frame.EachItems != nil {
		copied.EachItems = make([]Value, len(frame.EachItems))
		for i, item := range frame.EachItems {
			copied.EachItems[i] = c.copyValue(item)
		}
	}
	if frame.Resolved != nil {
		copied.Resolved = make([]Value, len(frame.Resolved))
		for i, val := range frame.Resolved {
			copied.Resolved[i] = c.copyValue(val)
		}
	}
	return &copied
}

func (v *VM) pushSnapshot() {
	c := newCopier()
	frames := make([]*Frame, len(v.frames))
	for i, frame := range v.frames {
		frames[i] = c.copyFrame(frame)
	}
	rngState, _ := v.rngSrc.MarshalBinary()
	snap := &snapshot{
		frames:    frames,
		globals:   c.copyEnv(v.globals),
		outputLen: len(v.outputs),
		stepCount: v.stepCount,
		rngState:  rngState,
	}

	if v.MaxHistory > 0 && len(v.history) >= v.MaxHistory {
		n := copy(v.history, v.history[1:])
		v.history = v.history[:n]
	}
	v.history = append(v.history, snap)
}

// StepBack restores the most recent pre-step snapshot: frame stack,
// environments, output log length and RNG state. It reports false with no
// effect when the history is empty. Stepping back out of an errored state
// clears the error.
func (v *VM) StepBack() bool {
	if len(v.history) == 0 {
		return false
	}
	snap := v.history[len(v.history)-1]
	v.history = v.history[:len(v.history)-1]

	v.frames = snap.frames
	v.globals = snap.globals
	v.outputs = v.outputs[:snap.outputLen]
	v.stepCount = snap.stepCount
	if snap.rngState != nil {
		_ = v.rngSrc.UnmarshalBinary(snap.rngState)
	}
	v.errored = nil

	v.Logger.Debug("step back",
		"count", v.stepCount,
		"history", len(v.history),
	)
	return true
}

func (v *VM) HistoryLength() int {
	return len(v.history)
}
