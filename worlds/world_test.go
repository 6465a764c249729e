package worlds

import (
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/pika/pikalang"
	"github.com/reusee/pika/pikavm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGrid = []string{
	"#####",
	"#S.G#",
	"#####",
}

func TestNew(t *testing.T) {
	world, err := New(testGrid)
	require.NoError(t, err)
	assert.Equal(t, 5, world.Width)
	assert.Equal(t, 3, world.Height)
	assert.Equal(t, Point{X: 1, Y: 1}, world.Robot)
	assert.Equal(t, Point{X: 3, Y: 1}, world.Goal)
	assert.Equal(t, East, world.Dir)

	_, err = New([]string{"..."})
	assert.Error(t, err)

	_, err = New([]string{"S?"})
	assert.Error(t, err)
}

func TestMovement(t *testing.T) {
	world, err := New(testGrid)
	require.NoError(t, err)

	assert.True(t, world.FrontClear())
	assert.True(t, world.Forward())
	assert.True(t, world.Forward())
	assert.True(t, world.AtGoal())

	// facing the east wall now
	assert.False(t, world.FrontClear())
	assert.False(t, world.Forward())
	assert.Equal(t, Point{X: 3, Y: 1}, world.Robot)

	world.TurnLeft()
	assert.Equal(t, North, world.Dir)
	world.TurnRight()
	world.TurnRight()
	assert.Equal(t, South, world.Dir)
}

func TestBind(t *testing.T) {
	world, err := New([]string{
		"######",
		"#S...#",
		"####.#",
		"#G...#",
		"######",
	})
	require.NoError(t, err)

	registry := pikavm.NewRegistry()
	world.Bind(registry)

	// wall-following: walk until blocked, then turn right, until the goal
	program, err := pikalang.Compile("maze", strings.Join([]string{
		`while not atGoal():`,
		`    if frontClear():`,
		`        forward()`,
		`    else:`,
		`        turnRight()`,
	}, "\n"))
	require.NoError(t, err)

	vm := pikavm.NewVM(registry)
	vm.MaxSteps = 10000
	vm.Load(program)
	for {
		result, err := vm.Step()
		require.NoError(t, err)
		if result.Done {
			break
		}
	}
	assert.True(t, world.AtGoal())
}

func TestModule(t *testing.T) {
	dscope.New(new(Module)).Call(func(
		world *World,
	) {
		require.NotNil(t, world)
		assert.False(t, world.AtGoal())
		assert.True(t, world.FrontClear())
	})
}

func TestBindArity(t *testing.T) {
	world, err := New(testGrid)
	require.NoError(t, err)
	registry := pikavm.NewRegistry()
	world.Bind(registry)

	program, err := pikalang.Compile("maze", "forward(1)")
	require.NoError(t, err)
	vm := pikavm.NewVM(registry)
	vm.Load(program)
	_, err = vm.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects no arguments")
}
