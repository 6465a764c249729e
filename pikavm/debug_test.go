package pikavm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakpoints(t *testing.T) {
	vm := newTestVM(t, "x = 1")

	vm.AddBreakpoint(3)
	vm.AddBreakpoint(1)
	vm.AddBreakpoint(3)
	assert.Equal(t, []int{1, 3}, vm.Breakpoints())

	vm.RemoveBreakpoint(1)
	assert.Equal(t, []int{3}, vm.Breakpoints())

	assert.False(t, vm.ToggleBreakpoint(5))
	_ = vm.ToggleBreakpoint(5)
	assert.True(t, vm.ToggleBreakpoint(5))
	assert.True(t, vm.HasBreakpoint(5))
}

func TestRunUntilBreakpoint(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`total = 0`,
		`for i in range(10):`,
		`    total = total + i`,
		`    x = total * 2`,
		`print(total)`,
	}, "\n"))
	vm.AddBreakpoint(4)

	hits := 0
	for {
		result, err := vm.Step()
		require.NoError(t, err)
		if result.Done {
			break
		}
		if line, ok := vm.CurrentLine(); ok && vm.HasBreakpoint(line) {
			hits++
			assert.Equal(t, 4, line)
		}
	}
	assert.Equal(t, 10, hits)
}

func TestBreakpointHaltsBeforeLine(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`x = 1`,
		`x = 2`,
		`x = 3`,
	}, "\n"))
	vm.AddBreakpoint(2)

	for {
		result, err := vm.Step()
		require.NoError(t, err)
		require.False(t, result.Done)
		if line, ok := vm.CurrentLine(); ok && vm.HasBreakpoint(line) {
			break
		}
	}

	// halted with line 2 pending, not yet executed
	line, ok := vm.CurrentLine()
	require.True(t, ok)
	assert.Equal(t, 2, line)
	assert.Equal(t, float64(1), global(t, vm, "x").Num)
}

func TestWatches(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`x = 1`,
		`y = 2`,
	}, "\n"))
	vm.AddWatch("x")
	vm.AddWatch("missing")
	vm.AddWatch("x")

	watches := vm.WatchValues()
	require.Len(t, watches, 2)
	assert.False(t, watches[0].Bound)
	assert.False(t, watches[1].Bound)

	_, err := vm.Step()
	require.NoError(t, err)

	watches = vm.WatchValues()
	assert.Equal(t, "x", watches[0].Name)
	assert.True(t, watches[0].Bound)
	assert.Equal(t, float64(1), watches[0].Value.Num)
	assert.False(t, watches[1].Bound)

	vm.RemoveWatch("missing")
	assert.Len(t, vm.WatchValues(), 1)
}

func TestCallStack(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`def inner(n):`,
		`    return n`,
		`def outer(n):`,
		`    return inner(n + 1)`,
		`x = outer(1)`,
	}, "\n"))

	assert.Empty(t, vm.CallStack())

	var deepest []StackEntry
	for {
		result, err := vm.Step()
		require.NoError(t, err)
		if result.Done {
			break
		}
		if stack := vm.CallStack(); len(stack) > len(deepest) {
			deepest = stack
		}
	}

	require.Len(t, deepest, 2)
	assert.Equal(t, "outer", deepest[0].Name)
	assert.Equal(t, 5, deepest[0].CallLine)
	assert.Equal(t, "inner", deepest[1].Name)
	assert.Equal(t, 4, deepest[1].CallLine)
	assert.Equal(t, float64(2), deepest[1].Locals["n"].Num)
}

func TestWatchSeesFunctionLocals(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`def f():`,
		`    local = 7`,
		`    return local`,
		`x = f()`,
	}, "\n"))
	vm.AddWatch("local")

	sawLocal := false
	for {
		result, err := vm.Step()
		require.NoError(t, err)
		if result.Done {
			break
		}
		for _, watch := range vm.WatchValues() {
			if watch.Bound && watch.Value.Num == 7 {
				sawLocal = true
			}
		}
	}
	assert.True(t, sawLocal)

	// out of scope again once the call returns
	watches := vm.WatchValues()
	assert.False(t, watches[0].Bound)
}
