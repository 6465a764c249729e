package worlds

import (
	"fmt"

	"github.com/reusee/pika/pikavm"
)

type Point struct {
	X int
	Y int
}

type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = map[Direction]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

func (d Direction) String() string {
	return directionNames[d]
}

// World is a grid maze with one robot. It is the demo host collaborator for
// the engine: its commands and sensors are exposed as native functions.
type World struct {
	Width  int
	Height int
	Walls  map[Point]bool
	Robot  Point
	Dir    Direction
	Goal   Point
}

// New parses a grid: '#' wall, 'S' robot start, 'G' goal, '.' or ' ' floor.
// The robot starts facing east.
func New(grid []string) (*World, error) {
	w := &World{
		Walls: make(map[Point]bool),
		Dir:   East,
	}
	hasStart := false
	for y, row := range grid {
		if len(row) > w.Width {
			w.Width = len(row)
		}
		for x, cell := range []byte(row) {
			p := Point{X: x, Y: y}
			switch cell {
			case '#':
				w.Walls[p] = true
			case 'S':
				w.Robot = p
				hasStart = true
			case 'G':
				w.Goal = p
			case '.', ' ':
			default:
				return nil, fmt.Errorf("bad grid cell %q at %d,%d", cell, x, y)
			}
		}
	}
	w.Height = len(grid)
	if !hasStart {
		return nil, fmt.Errorf("grid has no start cell")
	}
	return w, nil
}

func (w *World) front() Point {
	p := w.Robot
	switch w.Dir {
	case North:
		p.Y--
	case East:
		p.X++
	case South:
		p.Y++
	case West:
		p.X--
	}
	return p
}

func (w *World) FrontClear() bool {
	p := w.front()
	if p.X < 0 || p.X >= w.Width || p.Y < 0 || p.Y >= w.Height {
		return false
	}
	return !w.Walls[p]
}

// Forward moves one cell and reports whether the robot moved; a blocked
// robot stays put.
func (w *World) Forward() bool {
	if !w.FrontClear() {
		return false
	}
	w.Robot = w.front()
	return true
}

func (w *World) TurnLeft() {
	w.Dir = (w.Dir + 3) % 4
}

func (w *World) TurnRight() {
	w.Dir = (w.Dir + 1) % 4
}

func (w *World) AtGoal() bool {
	return w.Robot == w.Goal
}

// Bind registers the world's commands and sensors as native functions.
func (w *World) Bind(registry *pikavm.Registry) {
	registry.Register(pikavm.NativeFunc{
		Name: "forward",
		Func: func(args []pikavm.Value) (pikavm.Value, error) {
			if len(args) != 0 {
				return pikavm.Value{}, fmt.Errorf("forward() expects no arguments")
			}
			return pikavm.Bool(w.Forward()), nil
		},
	})
	registry.Register(pikavm.NativeFunc{
		Name: "turnLeft",
		Func: func(args []pikavm.Value) (pikavm.Value, error) {
			if len(args) != 0 {
				return pikavm.Value{}, fmt.Errorf("turnLeft() expects no arguments")
			}
			w.TurnLeft()
			return pikavm.None(), nil
		},
	})
	registry.Register(pikavm.NativeFunc{
		Name: "turnRight",
		Func: func(args []pikavm.Value) (pikavm.Value, error) {
			if len(args) != 0 {
				return pikavm.Value{}, fmt.Errorf("turnRight() expects no arguments")
			}
			w.TurnRight()
			return pikavm.None(), nil
		},
	})
	registry.Register(pikavm.NativeFunc{
		Name: "frontClear",
		Func: func(args []pikavm.Value) (pikavm.Value, error) {
			if len(args) != 0 {
				return pikavm.Value{}, fmt.Errorf("frontClear() expects no arguments")
			}
			return pikavm.Bool(w.FrontClear()), nil
		},
	})
	registry.Register(pikavm.NativeFunc{
		Name: "atGoal",
		Func: func(args []pikavm.Value) (pikavm.Value, error) {
			if len(args) != 0 {
				return pikavm.Value{}, fmt.Errorf("atGoal() expects no arguments")
			}
			return pikavm.Bool(w.AtGoal()), nil
		},
	})
}
