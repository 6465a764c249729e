package pikavm

import (
	"github.com/reusee/pika/pikalang"
)

type FrameKind uint8

const (
	FrameTop FrameKind = iota
	FrameBlock
	FrameWhile
	FrameRepeat
	FrameForRange
	FrameForEach
	FrameFunc
)

var frameKindNames = map[FrameKind]string{
	FrameTop:      "top",
	FrameBlock:    "block",
	FrameWhile:    "while",
	FrameRepeat:   "repeat",
	FrameForRange: "for-range",
	FrameForEach:  "for-each",
	FrameFunc:     "function",
}

func (k FrameKind) String() string {
	return frameKindNames[k]
}

// Frame is one activation record: a block of statements, a cursor into it,
// and the environment statements execute in. Loop frames re-enter their
// block after a condition re-check; the function frame is the unwind target
// of return.
type Frame struct {
	Kind   FrameKind
	Block  []pikalang.Stmt
	Cursor int
	Env    *Env
	// Line is the source line of the owning statement; loop re-checks and
	// call exits report it
	Line int

	// while state
	Cond pikalang.Expr

	// repeat state: iterations left, current one included
	Remaining int

	// for-range state
	RangeVar  string
	RangeCur  float64
	RangeStop float64

	// for-each state: items are snapshotted at loop entry
	EachVar   string
	EachItems []Value
	EachIdx   int

	// function state
	FnName   string
	CallLine int

	// Resolved memoizes effectful sub-expression results (calls, random)
	// of the statement currently executing in this frame, so a statement
	// suspended on a user call never re-runs a side effect
	Resolved []Value
}

func (f *Frame) exhausted() bool {
	return f.Cursor >= len(f.Block)
}

func (f *Frame) isLoop() bool {
	switch f.Kind {
	case FrameWhile, FrameRepeat, FrameForRange, FrameForEach:
		return true
	}
	return false
}
