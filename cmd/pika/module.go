package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/pika/configs"
	"github.com/reusee/pika/logs"
	"github.com/reusee/pika/worlds"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
	Worlds  worlds.Module
}
