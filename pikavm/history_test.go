package pikavm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepBackRestoresState(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`x = 1`,
		`print(x)`,
		`x = 2`,
	}, "\n"))

	_, err := vm.Step() // x = 1
	require.NoError(t, err)
	_, err = vm.Step() // print
	require.NoError(t, err)
	_, err = vm.Step() // x = 2
	require.NoError(t, err)

	assert.Equal(t, float64(2), global(t, vm, "x").Num)
	assert.Equal(t, []string{"1"}, vm.Outputs())

	require.True(t, vm.StepBack())
	assert.Equal(t, float64(1), global(t, vm, "x").Num)
	assert.Equal(t, 2, vm.StepCount())

	// stepping back past the print retracts its output
	require.True(t, vm.StepBack())
	assert.Empty(t, vm.Outputs())
}

func TestStepBackToStart(t *testing.T) {
	vm := newTestVM(t, "x = 1\ny = 2")

	steps := 0
	for {
		result, err := vm.Step()
		require.NoError(t, err)
		steps++
		if result.Done {
			break
		}
	}

	for i := 0; i < steps; i++ {
		require.True(t, vm.StepBack())
	}

	assert.Equal(t, 0, vm.StepCount())
	assert.Equal(t, StateReady, vm.State())
	_, ok := vm.CurrentLine()
	assert.False(t, ok)
	assert.Empty(t, vm.Variables())

	// no more history
	assert.False(t, vm.StepBack())

	// the program replays identically
	runToDone(t, vm)
	assert.Equal(t, float64(1), global(t, vm, "x").Num)
	assert.Equal(t, float64(2), global(t, vm, "y").Num)
}

func TestStepBackPreservesAliasing(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`a = [1]`,
		`b = a`,
		`append(a, 2)`,
		`append(a, 3)`,
	}, "\n"))
	runToDone(t, vm)
	require.True(t, vm.StepBack())

	// a and b still name the same array after the rewind
	assert.Equal(t, "[1, 2]", Format(global(t, vm, "b")))
	runToDone(t, vm)
	assert.Equal(t, "[1, 2, 3]", Format(global(t, vm, "b")))
}

func TestStepBackReplaysRandom(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`x = random()`,
		`y = randint(1, 1000000)`,
	}, "\n"))
	vm.Seed(42)
	runToDone(t, vm)

	x := global(t, vm, "x").Num
	y := global(t, vm, "y").Num

	for vm.StepBack() {
	}
	runToDone(t, vm)

	assert.Equal(t, x, global(t, vm, "x").Num)
	assert.Equal(t, y, global(t, vm, "y").Num)
}

func TestStepBackClearsError(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`x = 1`,
		`y = boom`,
	}, "\n"))

	rerr := runToError(t, vm)
	assert.Equal(t, 2, rerr.Line)
	assert.Equal(t, StateErrored, vm.State())

	require.True(t, vm.StepBack())
	assert.Nil(t, vm.Err())
	assert.NotEqual(t, StateErrored, vm.State())

	// the same step fails the same way
	rerr = runToError(t, vm)
	assert.Contains(t, rerr.Message, `undefined variable "boom"`)
}

func TestHistoryCap(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`x = 0`,
		`while x < 20:`,
		`    x = x + 1`,
	}, "\n"))
	vm.MaxHistory = 5
	runToDone(t, vm)

	assert.Equal(t, 5, vm.HistoryLength())
	backs := 0
	for vm.StepBack() {
		backs++
	}
	assert.Equal(t, 5, backs)
	// rewound into the middle, not to the start
	assert.Greater(t, vm.StepCount(), 0)
}

func TestSnapshotIsolation(t *testing.T) {
	vm := newTestVM(t, strings.Join([]string{
		`a = [1]`,
		`append(a, 2)`,
	}, "\n"))
	runToDone(t, vm)

	// mutations after the snapshot must not leak into it
	require.True(t, vm.StepBack())
	assert.Equal(t, "[1]", Format(global(t, vm, "a")))
}
