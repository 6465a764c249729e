package configs

import (
	"errors"

	"github.com/reusee/dscope"
	"github.com/reusee/pika/cmds"
)

type Module struct {
	dscope.Module
}

var configFilePaths = cmds.Collect[string]("-config")

type FilePaths []string

func (Module) FilePaths() FilePaths {
	return FilePaths(*configFilePaths)
}

func (Module) Loader(paths FilePaths) Loader {
	return NewLoader(paths, Schema)
}

func (Module) Engine(loader Loader) Engine {
	engine := Engine{
		MaxCallDepth: 100,
		MaxHistory:   10000,
	}
	if err := loader.AssignFirst("engine", &engine); err != nil {
		if !errors.Is(err, ErrValueNotFound) {
			panic(err)
		}
	}
	return engine
}
