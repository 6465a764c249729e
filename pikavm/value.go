package pikavm

import (
	"github.com/reusee/pika/pikalang"
)

type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindArray
	KindObject
	KindFunc
)

var valueKindNames = map[ValueKind]string{
	KindNone:   "none",
	KindNumber: "number",
	KindString: "string",
	KindBool:   "boolean",
	KindArray:  "array",
	KindObject: "object",
	KindFunc:   "function",
}

func (k ValueKind) String() string {
	return valueKindNames[k]
}

// Value is the runtime value union. Arrays and objects are shared by
// reference, everything else by value.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
	Arr  *Array
	Obj  *Object
	Fn   *Function
}

type Array struct {
	Elements []Value
}

// Object is an insertion-ordered string-keyed mapping.
type Object struct {
	Keys   []string
	Fields map[string]Value
}

func NewObject() *Object {
	return &Object{
		Fields: make(map[string]Value),
	}
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Fields[key]
	return v, ok
}

func (o *Object) Set(key string, val Value) {
	if _, ok := o.Fields[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Fields[key] = val
}

// Function is a user-defined function. The defining scope is always the
// global scope; calls push one fresh scope chained to it.
type Function struct {
	Name   string
	Params []string
	Body   []pikalang.Stmt
	Line   int
}

func None() Value {
	return Value{Kind: KindNone}
}

func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

func Str(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func NewArray(elements ...Value) Value {
	return Value{Kind: KindArray, Arr: &Array{Elements: elements}}
}

func ObjectValue(o *Object) Value {
	return Value{Kind: KindObject, Obj: o}
}

// Truthy pins the truthiness table: false, 0, "", [], {} and none are falsy,
// everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindNumber:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	case KindBool:
		return v.Bool
	case KindArray:
		return len(v.Arr.Elements) > 0
	case KindObject:
		return len(v.Obj.Keys) > 0
	}
	return true
}

// Equal is deep same-kind equality; values of different kinds compare
// unequal without error.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindArray:
		if len(a.Arr.Elements) != len(b.Arr.Elements) {
			return false
		}
		for i, elem := range a.Arr.Elements {
			if !Equal(elem, b.Arr.Elements[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Obj.Keys) != len(b.Obj.Keys) {
			return false
		}
		for _, key := range a.Obj.Keys {
			bv, ok := b.Obj.Get(key)
			if !ok || !Equal(a.Obj.Fields[key], bv) {
				return false
			}
		}
		return true
	case KindFunc:
		return a.Fn == b.Fn
	}
	return false
}
