package pikavm

import (
	"math"
	"strings"
)

func (c *evalCtx) builtinPrint(args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Format(arg)
	}
	c.vm.emitOutput(strings.Join(parts, " "))
	return None(), nil
}

func builtinAppend(args []Value, line int) (Value, error) {
	if len(args) != 2 {
		return Value{}, runtimeErrorf(line, "append() expects 2 arguments, got %d", len(args))
	}
	if args[0].Kind != KindArray {
		return Value{}, runtimeErrorf(line, "append() expects an array, got a %s", args[0].Kind)
	}
	arr := args[0].Arr
	arr.Elements = append(arr.Elements, args[1])
	return None(), nil
}

func builtinPop(args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErrorf(line, "pop() expects 1 argument, got %d", len(args))
	}
	if args[0].Kind != KindArray {
		return Value{}, runtimeErrorf(line, "pop() expects an array, got a %s", args[0].Kind)
	}
	arr := args[0].Arr
	if len(arr.Elements) == 0 {
		return Value{}, runtimeErrorf(line, "pop() from an empty array")
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last, nil
}

func builtinInsert(args []Value, line int) (Value, error) {
	if len(args) != 3 {
		return Value{}, runtimeErrorf(line, "insert() expects 3 arguments, got %d", len(args))
	}
	if args[0].Kind != KindArray {
		return Value{}, runtimeErrorf(line, "insert() expects an array, got a %s", args[0].Kind)
	}
	if args[1].Kind != KindNumber || args[1].Num != math.Trunc(args[1].Num) {
		return Value{}, runtimeErrorf(line, "insert() index must be an integer")
	}
	arr := args[0].Arr
	idx := int(args[1].Num)
	if idx < 0 {
		idx += len(arr.Elements)
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(arr.Elements) {
		idx = len(arr.Elements)
	}
	arr.Elements = append(arr.Elements, Value{})
	copy(arr.Elements[idx+1:], arr.Elements[idx:])
	arr.Elements[idx] = args[2]
	return None(), nil
}
