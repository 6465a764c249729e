package pikavm

import (
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/reusee/pika/pikalang"
)

type State uint8

const (
	StateReady State = iota
	StateRunning
	StateErrored
	StateDone
)

var stateNames = map[State]string{
	StateReady:   "ready",
	StateRunning: "running",
	StateErrored: "errored",
	StateDone:    "done",
}

func (s State) String() string {
	return stateNames[s]
}

// VM executes one Program as an explicit state machine over a frame stack,
// one schedulable unit per Step. The host configures Registry, OnPrint and
// the limits before Load; a VM is created per run and dropped on reset.
type VM struct {
	Registry *Registry
	// OnPrint is invoked synchronously whenever a print statement executes
	OnPrint func(string)
	Logger  *slog.Logger
	// MaxCallDepth bounds user-function nesting; exceeding it is a runtime
	// error
	MaxCallDepth int
	// MaxHistory caps the step-back log; the oldest snapshots are dropped
	// first. Zero means unlimited.
	MaxHistory int
	// MaxSteps aborts runaway programs when positive
	MaxSteps int

	program   *pikalang.Program
	globals   *Env
	frames    []*Frame
	history   []*snapshot
	outputs   []string
	errored   *RuntimeError
	stepCount int

	breakpoints map[int]bool
	watches     []string

	rngSrc *rand.PCG
	rng    *rand.Rand
}

func NewVM(registry *Registry) *VM {
	v := &VM{
		Registry:     registry,
		Logger:       slog.New(slog.DiscardHandler),
		MaxCallDepth: 100,
		MaxHistory:   10000,
		breakpoints:  make(map[int]bool),
	}
	v.Seed(rand.Uint64())
	return v
}

// Seed reseeds the VM-owned RNG; runs with equal seeds and equal inputs are
// identical.
func (v *VM) Seed(seed uint64) {
	v.rngSrc = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	v.rng = rand.New(v.rngSrc)
}

// Load initializes a single top-level frame over the program with a fresh
// global environment, empty history, and empty breakpoint and watch sets.
func (v *VM) Load(program *pikalang.Program) {
	v.program = program
	v.globals = &Env{}
	v.frames = []*Frame{{
		Kind:  FrameTop,
		Block: program.Stmts,
		Env:   v.globals,
	}}
	v.history = nil
	v.outputs = nil
	v.errored = nil
	v.stepCount = 0
	v.breakpoints = make(map[int]bool)
	v.watches = nil
	v.normalize()
}

type StepResult struct {
	Line    int
	HasLine bool
	Done    bool
}

// Step executes exactly one schedulable unit: one simple statement, one
// loop-condition (re)check, or one user-call entry or exit. A history
// snapshot of the pre-step state is taken before anything mutates. After a
// RuntimeError the VM is terminal and Step reports done without effect.
func (v *VM) Step() (StepResult, error) {
	if v.errored != nil || len(v.frames) == 0 {
		return StepResult{Done: true}, nil
	}

	if v.MaxSteps > 0 && v.stepCount >= v.MaxSteps {
		line, _ := v.nextLine()
		err := runtimeErrorf(line, "program exceeded the limit of %d steps", v.MaxSteps)
		v.errored = err
		return StepResult{Line: line, HasLine: line > 0, Done: true}, err
	}

	v.pushSnapshot()
	v.stepCount++

	line, err := v.execUnit()
	if err != nil {
		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			rerr = &RuntimeError{Message: err.Error(), Line: line}
		}
		v.errored = rerr
		v.Logger.Debug("step errored",
			"line", rerr.Line,
			"error", rerr.Message,
		)
		return StepResult{Line: rerr.Line, HasLine: rerr.Line > 0, Done: true}, rerr
	}

	v.normalize()
	v.Logger.Debug("step",
		"line", line,
		"frames", len(v.frames),
		"count", v.stepCount,
	)
	return StepResult{
		Line:    line,
		HasLine: line > 0,
		Done:    len(v.frames) == 0,
	}, nil
}

func (v *VM) State() State {
	switch {
	case v.errored != nil:
		return StateErrored
	case len(v.frames) == 0:
		return StateDone
	case v.stepCount == 0:
		return StateReady
	}
	return StateRunning
}

func (v *VM) Err() *RuntimeError {
	return v.errored
}

func (v *VM) StepCount() int {
	return v.stepCount
}

// CurrentLine reports the line the next Step will execute. It reports no
// line before the first step, after completion, and after an error.
func (v *VM) CurrentLine() (int, bool) {
	if v.errored != nil || v.stepCount == 0 {
		return 0, false
	}
	return v.nextLine()
}

func (v *VM) nextLine() (int, bool) {
	if len(v.frames) == 0 {
		return 0, false
	}
	frame := v.frames[len(v.frames)-1]
	if !frame.exhausted() {
		return frame.Block[frame.Cursor].NodePos().Line, true
	}
	if frame.Kind == FrameFunc {
		return frame.CallLine, true
	}
	return frame.Line, true
}

// Outputs is everything printed so far; StepBack truncates it.
func (v *VM) Outputs() []string {
	ret := make([]string, len(v.outputs))
	copy(ret, v.outputs)
	return ret
}

func (v *VM) emitOutput(message string) {
	v.outputs = append(v.outputs, message)
	if v.OnPrint != nil {
		v.OnPrint(message)
	}
}

// normalize silently pops exhausted plain block frames; popping them is
// bookkeeping, not a schedulable unit.
func (v *VM) normalize() {
	for len(v.frames) > 0 {
		top := v.frames[len(v.frames)-1]
		if !top.exhausted() {
			return
		}
		if top.Kind != FrameBlock && top.Kind != FrameTop {
			return
		}
		v.frames = v.frames[:len(v.frames)-1]
	}
}

func (v *VM) pop() *Frame {
	top := v.frames[len(v.frames)-1]
	v.frames = v.frames[:len(v.frames)-1]
	return top
}

func (v *VM) push(frame *Frame) {
	v.frames = append(v.frames, frame)
}

func (v *VM) top() *Frame {
	return v.frames[len(v.frames)-1]
}

func (v *VM) execUnit() (int, error) {
	frame := v.top()
	if frame.exhausted() {
		return v.execBlockEnd(frame)
	}
	return v.execStmt(frame, frame.Block[frame.Cursor])
}

// execBlockEnd handles a frame whose cursor ran past its block: loop frames
// re-check and re-enter, function frames pop and deliver none.
func (v *VM) execBlockEnd(frame *Frame) (int, error) {
	switch frame.Kind {

	case FrameWhile:
		ctx := v.newEvalCtx(frame)
		cond, err := ctx.eval(frame.Cond)
		if err != nil {
			if errors.Is(err, errSuspend) {
				return v.enterCall(ctx.pending)
			}
			return frame.Line, err
		}
		frame.Resolved = nil
		if cond.Truthy() {
			frame.Cursor = 0
		} else {
			v.pop()
		}
		return frame.Line, nil

	case FrameRepeat:
		frame.Remaining--
		if frame.Remaining > 0 {
			frame.Cursor = 0
		} else {
			v.pop()
		}
		return frame.Line, nil

	case FrameForRange:
		frame.RangeCur++
		if frame.RangeCur < frame.RangeStop {
			v.assign(frame.Env, frame.RangeVar, Number(frame.RangeCur))
			frame.Cursor = 0
		} else {
			v.pop()
		}
		return frame.Line, nil

	case FrameForEach:
		frame.EachIdx++
		if frame.EachIdx < len(frame.EachItems) {
			v.assign(frame.Env, frame.EachVar, frame.EachItems[frame.EachIdx])
			frame.Cursor = 0
		} else {
			v.pop()
		}
		return frame.Line, nil

	case FrameFunc:
		v.pop()
		v.deliverReturn(None())
		return frame.CallLine, nil
	}

	v.pop()
	return frame.Line, nil
}

func (v *VM) execStmt(frame *Frame, stmt pikalang.Stmt) (int, error) {
	line := stmt.NodePos().Line
	ctx := v.newEvalCtx(frame)

	suspendOr := func(err error) (int, error) {
		if errors.Is(err, errSuspend) {
			return v.enterCall(ctx.pending)
		}
		return line, err
	}

	switch stmt := stmt.(type) {

	case *pikalang.PassStmt:
		v.advance(frame)
		return line, nil

	case *pikalang.ExprStmt:
		if _, err := ctx.eval(stmt.Expr); err != nil {
			return suspendOr(err)
		}
		v.advance(frame)
		return line, nil

	case *pikalang.AssignStmt:
		val, err := ctx.eval(stmt.Value)
		if err != nil {
			return suspendOr(err)
		}
		if err := v.execAssign(ctx, stmt, val); err != nil {
			return suspendOr(err)
		}
		v.advance(frame)
		return line, nil

	case *pikalang.IfStmt:
		cond, err := ctx.eval(stmt.Cond)
		if err != nil {
			return suspendOr(err)
		}
		v.advance(frame)
		var body []pikalang.Stmt
		if cond.Truthy() {
			body = stmt.Then
		} else {
			body = stmt.Else
		}
		if len(body) > 0 {
			v.push(&Frame{
				Kind:  FrameBlock,
				Block: body,
				Env:   frame.Env,
				Line:  line,
			})
		}
		return line, nil

	case *pikalang.WhileStmt:
		cond, err := ctx.eval(stmt.Cond)
		if err != nil {
			return suspendOr(err)
		}
		v.advance(frame)
		if cond.Truthy() {
			v.push(&Frame{
				Kind:  FrameWhile,
				Block: stmt.Body,
				Env:   frame.Env,
				Line:  line,
				Cond:  stmt.Cond,
			})
		}
		return line, nil

	case *pikalang.RepeatStmt:
		count, err := ctx.eval(stmt.Count)
		if err != nil {
			return suspendOr(err)
		}
		if count.Kind != KindNumber {
			return line, runtimeErrorf(line, "repeat count must be a number, not a %s", count.Kind)
		}
		v.advance(frame)
		n := int(math.Floor(count.Num))
		if n > 0 {
			v.push(&Frame{
				Kind:      FrameRepeat,
				Block:     stmt.Body,
				Env:       frame.Env,
				Line:      line,
				Remaining: n,
			})
		}
		return line, nil

	case *pikalang.ForRangeStmt:
		start, err := ctx.eval(stmt.Start)
		if err != nil {
			return suspendOr(err)
		}
		stop, err := ctx.eval(stmt.Stop)
		if err != nil {
			return suspendOr(err)
		}
		if start.Kind != KindNumber || stop.Kind != KindNumber {
			return line, runtimeErrorf(line, "range() bounds must be numbers")
		}
		v.advance(frame)
		if start.Num < stop.Num {
			v.assign(frame.Env, stmt.Var, start)
			v.push(&Frame{
				Kind:      FrameForRange,
				Block:     stmt.Body,
				Env:       frame.Env,
				Line:      line,
				RangeVar:  stmt.Var,
				RangeCur:  start.Num,
				RangeStop: stop.Num,
			})
		}
		return line, nil

	case *pikalang.ForEachStmt:
		iterable, err := ctx.eval(stmt.Iterable)
		if err != nil {
			return suspendOr(err)
		}
		items, err := iterationItems(iterable, line)
		if err != nil {
			return line, err
		}
		v.advance(frame)
		if len(items) > 0 {
			v.assign(frame.Env, stmt.Var, items[0])
			v.push(&Frame{
				Kind:      FrameForEach,
				Block:     stmt.Body,
				Env:       frame.Env,
				Line:      line,
				EachVar:   stmt.Var,
				EachItems: items,
			})
		}
		return line, nil

	case *pikalang.FuncDefStmt:
		v.assign(frame.Env, stmt.Name, Value{
			Kind: KindFunc,
			Fn: &Function{
				Name:   stmt.Name,
				Params: stmt.Params,
				Body:   stmt.Body,
				Line:   line,
			},
		})
		v.advance(frame)
		return line, nil

	case *pikalang.ReturnStmt:
		val := None()
		if stmt.Value != nil {
			var err error
			val, err = ctx.eval(stmt.Value)
			if err != nil {
				return suspendOr(err)
			}
		}
		return line, v.execReturn(val, line)

	case *pikalang.BreakStmt:
		return line, v.execBreak(line)

	case *pikalang.ContinueStmt:
		return line, v.execContinue(line)
	}

	return line, runtimeErrorf(line, "cannot execute statement")
}

// advance moves the frame past the statement it just finished and drops the
// statement's memo.
func (v *VM) advance(frame *Frame) {
	frame.Cursor++
	frame.Resolved = nil
}

func (v *VM) assign(env *Env, name string, val Value) {
	if !env.Set(name, val) {
		env.Def(name, val)
	}
}

func (v *VM) execAssign(ctx *evalCtx, stmt *pikalang.AssignStmt, val Value) error {
	switch target := stmt.Target.(type) {

	case *pikalang.VariableExpr:
		v.assign(ctx.frame.Env, target.Name, val)
		return nil

	case *pikalang.IndexExpr:
		container, err := ctx.eval(target.Target)
		if err != nil {
			return err
		}
		index, err := ctx.eval(target.Index)
		if err != nil {
			return err
		}
		line := target.Pos.Line
		switch container.Kind {
		case KindArray:
			idx, err := normalizeIndex(index, len(container.Arr.Elements), line)
			if err != nil {
				return err
			}
			container.Arr.Elements[idx] = val
			return nil
		case KindObject:
			if index.Kind != KindString {
				return runtimeErrorf(line, "object key must be a string, not a %s", index.Kind)
			}
			container.Obj.Set(index.Str, val)
			return nil
		}
		return runtimeErrorf(line, "cannot assign into a %s", container.Kind)

	case *pikalang.FieldExpr:
		container, err := ctx.eval(target.Target)
		if err != nil {
			return err
		}
		if container.Kind != KindObject {
			return runtimeErrorf(target.Pos.Line, "cannot assign field %q of a %s",
				target.Name, container.Kind)
		}
		container.Obj.Set(target.Name, val)
		return nil
	}

	return runtimeErrorf(stmt.Pos.Line, "cannot assign to this expression")
}

func iterationItems(iterable Value, line int) ([]Value, error) {
	switch iterable.Kind {
	case KindArray:
		items := make([]Value, len(iterable.Arr.Elements))
		copy(items, iterable.Arr.Elements)
		return items, nil
	case KindString:
		runes := []rune(iterable.Str)
		items := make([]Value, len(runes))
		for i, r := range runes {
			items[i] = Str(string(r))
		}
		return items, nil
	case KindObject:
		items := make([]Value, len(iterable.Obj.Keys))
		for i, key := range iterable.Obj.Keys {
			items[i] = Str(key)
		}
		return items, nil
	}
	return nil, runtimeErrorf(line, "cannot iterate a %s", iterable.Kind)
}

// enterCall pushes a function frame for a pending user call; the call site
// keeps its memo so evaluation resumes where it stopped.
func (v *VM) enterCall(pending *pendingCall) (int, error) {
	depth := 0
	for _, frame := range v.frames {
		if frame.Kind == FrameFunc {
			depth++
		}
	}
	if depth >= v.MaxCallDepth {
		return pending.Line, runtimeErrorf(pending.Line, "maximum recursion depth exceeded")
	}

	env := v.globals.NewChild()
	for i, param := range pending.Fn.Params {
		env.Def(param, pending.Args[i])
	}
	v.push(&Frame{
		Kind:     FrameFunc,
		Block:    pending.Fn.Body,
		Env:      env,
		Line:     pending.Fn.Line,
		FnName:   pending.Fn.Name,
		CallLine: pending.Line,
	})
	v.Logger.Debug("call",
		"function", pending.Fn.Name,
		"line", pending.Line,
	)
	return pending.Line, nil
}

// deliverReturn hands a call result back to the frame that suspended on it.
func (v *VM) deliverReturn(val Value) {
	top := v.top()
	top.Resolved = append(top.Resolved, val)
}

func (v *VM) execReturn(val Value, line int) error {
	for i := len(v.frames) - 1; i >= 0; i-- {
		if v.frames[i].Kind == FrameFunc {
			v.frames = v.frames[:i]
			v.deliverReturn(val)
			return nil
		}
	}
	return runtimeErrorf(line, "return outside a function")
}

func (v *VM) execBreak(line int) error {
	for i := len(v.frames) - 1; i >= 0; i-- {
		frame := v.frames[i]
		if frame.Kind == FrameFunc {
			break
		}
		if frame.isLoop() {
			v.frames = v.frames[:i]
			return nil
		}
	}
	return runtimeErrorf(line, "break outside a loop")
}

func (v *VM) execContinue(line int) error {
	for i := len(v.frames) - 1; i >= 0; i-- {
		frame := v.frames[i]
		if frame.Kind == FrameFunc {
			break
		}
		if frame.isLoop() {
			v.frames = v.frames[:i+1]
			frame.Cursor = len(frame.Block)
			frame.Resolved = nil
			return nil
		}
	}
	return runtimeErrorf(line, "continue outside a loop")
}
