package worlds

import (
	"github.com/reusee/dscope"
	"github.com/reusee/pika/configs"
	"github.com/reusee/pika/logs"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}

var defaultGrid = []string{
	"#######",
	"#S....#",
	"#.###.#",
	"#....G#",
	"#######",
}

func (Module) World(
	loader configs.Loader,
	logger logs.Logger,
) *World {
	grid := configs.First[[]string](loader, "world.grid")
	if len(grid) == 0 {
		grid = defaultGrid
	}
	world, err := New(grid)
	if err != nil {
		panic(err)
	}
	logger.Info("world loaded",
		"width", world.Width,
		"height", world.Height,
	)
	return world
}
