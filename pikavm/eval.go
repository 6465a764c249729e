package pikavm

import (
	"errors"
	"math"

	"github.com/reusee/pika/pikalang"
)

// errSuspend unwinds expression evaluation when a user-defined function call
// needs its own frames. The pending call is recorded on the evalCtx; every
// effect already performed is memoized in the frame, so the re-evaluation
// after the call returns replays values instead of effects.
var errSuspend = errors.New("suspend on user call")

type pendingCall struct {
	Name string
	Fn   *Function
	Args []Value
	Line int
}

type evalCtx struct {
	vm      *VM
	frame   *Frame
	env     *Env
	used    int
	pending *pendingCall
}

func (v *VM) newEvalCtx(frame *Frame) *evalCtx {
	return &evalCtx{
		vm:    v,
		frame: frame,
		env:   frame.Env,
	}
}

// memoized consumes the next memo slot if the current evaluation pass
// already produced it, otherwise it runs compute and records the result.
func (c *evalCtx) memoized(compute func() (Value, error)) (Value, error) {
	if c.used < len(c.frame.Resolved) {
		val := c.frame.Resolved[c.used]
		c.used++
		return val, nil
	}
	val, err := compute()
	if err != nil {
		return Value{}, err
	}
	c.frame.Resolved = append(c.frame.Resolved, val)
	c.used++
	return val, nil
}

func (c *evalCtx) eval(expr pikalang.Expr) (Value, error) {
	switch expr := expr.(type) {

	case *pikalang.NumberExpr:
		return Number(expr.Value), nil

	case *pikalang.StringExpr:
		return Str(expr.Value), nil

	case *pikalang.BoolExpr:
		return Bool(expr.Value), nil

	case *pikalang.NoneExpr:
		return None(), nil

	case *pikalang.VariableExpr:
		val, ok := c.env.Get(expr.Name)
		if !ok {
			return Value{}, runtimeErrorf(expr.Pos.Line, "undefined variable %q", expr.Name)
		}
		return val, nil

	case *pikalang.UnaryExpr:
		return c.evalUnary(expr)

	case *pikalang.BinaryExpr:
		return c.evalBinary(expr)

	case *pikalang.ArrayExpr:
		elements := make([]Value, len(expr.Elements))
		for i, elementExpr := range expr.Elements {
			val, err := c.eval(elementExpr)
			if err != nil {
				return Value{}, err
			}
			elements[i] = val
		}
		return NewArray(elements...), nil

	case *pikalang.ObjectExpr:
		obj := NewObject()
		for i, key := range expr.Keys {
			val, err := c.eval(expr.Values[i])
			if err != nil {
				return Value{}, err
			}
			obj.Set(key, val)
		}
		return ObjectValue(obj), nil

	case *pikalang.IndexExpr:
		return c.evalIndex(expr)

	case *pikalang.SliceExpr:
		return c.evalSlice(expr)

	case *pikalang.FieldExpr:
		target, err := c.eval(expr.Target)
		if err != nil {
			return Value{}, err
		}
		if target.Kind != KindObject {
			return Value{}, runtimeErrorf(expr.Pos.Line, "cannot access field %q of a %s", expr.Name, target.Kind)
		}
		val, ok := target.Obj.Get(expr.Name)
		if !ok {
			return Value{}, runtimeErrorf(expr.Pos.Line, "object has no field %q", expr.Name)
		}
		return val, nil

	case *pikalang.LenExpr:
		arg, err := c.eval(expr.Arg)
		if err != nil {
			return Value{}, err
		}
		switch arg.Kind {
		case KindArray:
			return Number(float64(len(arg.Arr.Elements))), nil
		case KindString:
			return Number(float64(len([]rune(arg.Str)))), nil
		case KindObject:
			return Number(float64(len(arg.Obj.Keys))), nil
		}
		return Value{}, runtimeErrorf(expr.Pos.Line, "len() of a %s", arg.Kind)

	case *pikalang.RandomExpr:
		return c.memoized(func() (Value, error) {
			return Number(c.vm.rng.Float64()), nil
		})

	case *pikalang.RandintExpr:
		return c.evalRandint(expr)

	case *pikalang.CallExpr:
		return c.evalCall(expr)
	}

	return Value{}, runtimeErrorf(expr.NodePos().Line, "cannot evaluate expression")
}

func (c *evalCtx) evalUnary(expr *pikalang.UnaryExpr) (Value, error) {
	operand, err := c.eval(expr.Operand)
	if err != nil {
		return Value{}, err
	}
	switch expr.Op {
	case pikalang.TokenNot:
		return Bool(!operand.Truthy()), nil
	case pikalang.TokenMinus:
		if operand.Kind != KindNumber {
			return Value{}, runtimeErrorf(expr.Pos.Line, "cannot negate a %s", operand.Kind)
		}
		return Number(-operand.Num), nil
	}
	return Value{}, runtimeErrorf(expr.Pos.Line, "bad unary operator")
}

func (c *evalCtx) evalBinary(expr *pikalang.BinaryExpr) (Value, error) {
	// and/or short-circuit; replays are deterministic because operand
	// effects are memoized
	switch expr.Op {
	case pikalang.TokenAnd:
		left, err := c.eval(expr.Left)
		if err != nil {
			return Value{}, err
		}
		if !left.Truthy() {
			return left, nil
		}
		return c.eval(expr.Right)
	case pikalang.TokenOr:
		left, err := c.eval(expr.Left)
		if err != nil {
			return Value{}, err
		}
		if left.Truthy() {
			return left, nil
		}
		return c.eval(expr.Right)
	}

	left, err := c.eval(expr.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := c.eval(expr.Right)
	if err != nil {
		return Value{}, err
	}
	line := expr.Pos.Line

	switch expr.Op {

	case pikalang.TokenEq:
		return Bool(Equal(left, right)), nil

	case pikalang.TokenNotEq:
		return Bool(!Equal(left, right)), nil

	case pikalang.TokenLess, pikalang.TokenGreater, pikalang.TokenLessEq, pikalang.TokenGreaterEq:
		return compareOrdered(expr.Op, left, right, line)

	case pikalang.TokenPlus:
		return addValues(left, right, line)

	case pikalang.TokenMinus, pikalang.TokenStar, pikalang.TokenSlash,
		pikalang.TokenFloorDiv, pikalang.TokenPercent:
		return arithValues(expr.Op, left, right, line)
	}

	return Value{}, runtimeErrorf(line, "bad binary operator")
}

func compareOrdered(op pikalang.TokenKind, left, right Value, line int) (Value, error) {
	var cmp int
	switch {
	case left.Kind == KindNumber && right.Kind == KindNumber:
		switch {
		case left.Num < right.Num:
			cmp = -1
		case left.Num > right.Num:
			cmp = 1
		}
	case left.Kind == KindString && right.Kind == KindString:
		switch {
		case left.Str < right.Str:
			cmp = -1
		case left.Str > right.Str:
			cmp = 1
		}
	default:
		return Value{}, runtimeErrorf(line, "cannot order %s and %s", left.Kind, right.Kind)
	}

	switch op {
	case pikalang.TokenLess:
		return Bool(cmp < 0), nil
	case pikalang.TokenGreater:
		return Bool(cmp > 0), nil
	case pikalang.TokenLessEq:
		return Bool(cmp <= 0), nil
	}
	return Bool(cmp >= 0), nil
}

// addValues pins the coercion rules of +: numbers add, same-kind strings and
// arrays concatenate, and a single string operand stringifies the other side.
func addValues(left, right Value, line int) (Value, error) {
	switch {
	case left.Kind == KindNumber && right.Kind == KindNumber:
		return Number(left.Num + right.Num), nil
	case left.Kind == KindString && right.Kind == KindString:
		return Str(left.Str + right.Str), nil
	case left.Kind == KindString:
		return Str(left.Str + Format(right)), nil
	case right.Kind == KindString:
		return Str(Format(left) + right.Str), nil
	case left.Kind == KindArray && right.Kind == KindArray:
		elements := make([]Value, 0, len(left.Arr.Elements)+len(right.Arr.Elements))
		elements = append(elements, left.Arr.Elements...)
		elements = append(elements, right.Arr.Elements...)
		return NewArray(elements...), nil
	}
	return Value{}, runtimeErrorf(line, "cannot add %s and %s", left.Kind, right.Kind)
}

func arithValues(op pikalang.TokenKind, left, right Value, line int) (Value, error) {
	if left.Kind != KindNumber || right.Kind != KindNumber {
		return Value{}, runtimeErrorf(line, "cannot apply %s to %s and %s",
			op, left.Kind, right.Kind)
	}
	a, b := left.Num, right.Num
	switch op {
	case pikalang.TokenMinus:
		return Number(a - b), nil
	case pikalang.TokenStar:
		return Number(a * b), nil
	case pikalang.TokenSlash:
		if b == 0 {
			return Value{}, runtimeErrorf(line, "division by zero")
		}
		return Number(a / b), nil
	case pikalang.TokenFloorDiv:
		if b == 0 {
			return Value{}, runtimeErrorf(line, "division by zero")
		}
		return Number(math.Floor(a / b)), nil
	case pikalang.TokenPercent:
		if b == 0 {
			return Value{}, runtimeErrorf(line, "division by zero")
		}
		// floored modulo, the result takes the divisor's sign
		return Number(a - b*math.Floor(a/b)), nil
	}
	return Value{}, runtimeErrorf(line, "bad arithmetic operator")
}

func (c *evalCtx) evalIndex(expr *pikalang.IndexExpr) (Value, error) {
	target, err := c.eval(expr.Target)
	if err != nil {
		return Value{}, err
	}
	index, err := c.eval(expr.Index)
	if err != nil {
		return Value{}, err
	}
	line := expr.Pos.Line

	switch target.Kind {

	case KindArray:
		idx, err := normalizeIndex(index, len(target.Arr.Elements), line)
		if err != nil {
			return Value{}, err
		}
		return target.Arr.Elements[idx], nil

	case KindString:
		runes := []rune(target.Str)
		idx, err := normalizeIndex(index, len(runes), line)
		if err != nil {
			return Value{}, err
		}
		return Str(string(runes[idx])), nil

	case KindObject:
		if index.Kind != KindString {
			return Value{}, runtimeErrorf(line, "object key must be a string, not a %s", index.Kind)
		}
		val, ok := target.Obj.Get(index.Str)
		if !ok {
			return Value{}, runtimeErrorf(line, "object has no field %q", index.Str)
		}
		return val, nil
	}

	return Value{}, runtimeErrorf(line, "cannot index a %s", target.Kind)
}

// normalizeIndex validates an index value, counting negative indices from
// the end.
func normalizeIndex(index Value, length int, line int) (int, error) {
	if index.Kind != KindNumber || index.Num != math.Trunc(index.Num) {
		return 0, runtimeErrorf(line, "index must be an integer")
	}
	idx := int(index.Num)
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, runtimeErrorf(line, "index %s out of range", FormatNumber(index.Num))
	}
	return idx, nil
}

func (c *evalCtx) evalSlice(expr *pikalang.SliceExpr) (Value, error) {
	target, err := c.eval(expr.Target)
	if err != nil {
		return Value{}, err
	}
	line := expr.Pos.Line

	var length int
	switch target.Kind {
	case KindArray:
		length = len(target.Arr.Elements)
	case KindString:
		length = len([]rune(target.Str))
	default:
		return Value{}, runtimeErrorf(line, "cannot slice a %s", target.Kind)
	}

	start, stop := 0, length
	if expr.Start != nil {
		val, err := c.eval(expr.Start)
		if err != nil {
			return Value{}, err
		}
		start, err = sliceBound(val, length, line)
		if err != nil {
			return Value{}, err
		}
	}
	if expr.Stop != nil {
		val, err := c.eval(expr.Stop)
		if err != nil {
			return Value{}, err
		}
		stop, err = sliceBound(val, length, line)
		if err != nil {
			return Value{}, err
		}
	}
	if stop < start {
		stop = start
	}

	if target.Kind == KindString {
		return Str(string([]rune(target.Str)[start:stop])), nil
	}
	elements := make([]Value, stop-start)
	copy(elements, target.Arr.Elements[start:stop])
	return NewArray(elements...), nil
}

// sliceBound clamps a slice bound into [0, length]; negative bounds count
// from the end.
func sliceBound(val Value, length int, line int) (int, error) {
	if val.Kind != KindNumber || val.Num != math.Trunc(val.Num) {
		return 0, runtimeErrorf(line, "slice bound must be an integer")
	}
	idx := int(val.Num)
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		idx = 0
	}
	if idx > length {
		idx = length
	}
	return idx, nil
}

func (c *evalCtx) evalRandint(expr *pikalang.RandintExpr) (Value, error) {
	minVal, err := c.eval(expr.Min)
	if err != nil {
		return Value{}, err
	}
	maxVal, err := c.eval(expr.Max)
	if err != nil {
		return Value{}, err
	}
	line := expr.Pos.Line
	if minVal.Kind != KindNumber || maxVal.Kind != KindNumber ||
		minVal.Num != math.Trunc(minVal.Num) || maxVal.Num != math.Trunc(maxVal.Num) {
		return Value{}, runtimeErrorf(line, "randint() bounds must be integers")
	}
	lo, hi := int64(minVal.Num), int64(maxVal.Num)
	if lo > hi {
		return Value{}, runtimeErrorf(line, "randint() lower bound above upper bound")
	}
	return c.memoized(func() (Value, error) {
		return Number(float64(lo + c.vm.rng.Int64N(hi-lo+1))), nil
	})
}

func (c *evalCtx) evalCall(call *pikalang.CallExpr) (Value, error) {
	args := make([]Value, len(call.Args))
	for i, argExpr := range call.Args {
		val, err := c.eval(argExpr)
		if err != nil {
			return Value{}, err
		}
		args[i] = val
	}

	// the call's own memo slot comes after its arguments' slots
	if c.used < len(c.frame.Resolved) {
		val := c.frame.Resolved[c.used]
		c.used++
		return val, nil
	}

	line := call.Pos.Line
	record := func(val Value, err error) (Value, error) {
		if err != nil {
			return Value{}, err
		}
		c.frame.Resolved = append(c.frame.Resolved, val)
		c.used++
		return val, nil
	}

	switch call.Name {
	case "print":
		return record(c.builtinPrint(args))
	case "append":
		return record(builtinAppend(args, line))
	case "pop":
		return record(builtinPop(args, line))
	case "insert":
		return record(builtinInsert(args, line))
	}

	// natives shadow user definitions
	if native, ok := c.vm.Registry.Get(call.Name); ok {
		val, err := native.Call(args)
		if err != nil {
			return Value{}, runtimeErrorf(line, "%s", err.Error())
		}
		return record(val, nil)
	}

	if val, ok := c.env.Get(call.Name); ok && val.Kind == KindFunc {
		fn := val.Fn
		if len(args) != len(fn.Params) {
			return Value{}, runtimeErrorf(line, "%s() expects %d arguments, got %d",
				fn.Name, len(fn.Params), len(args))
		}
		c.pending = &pendingCall{
			Name: call.Name,
			Fn:   fn,
			Args: args,
			Line: line,
		}
		return Value{}, errSuspend
	}

	return Value{}, runtimeErrorf(line, "unknown function %q", call.Name)
}
