package main

import (
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/pika/cmds"
	"github.com/reusee/pika/configs"
	"github.com/reusee/pika/logs"
	"github.com/reusee/pika/modes"
	"github.com/reusee/pika/pikalang"
	"github.com/reusee/pika/pikavm"
	"github.com/reusee/pika/vars"
	"github.com/reusee/pika/worlds"
)

var (
	scriptPath = cmds.Var[string]("-file")
	debugMode  = cmds.Switch("-debug")
	seedFlag   = cmds.Var[uint64]("-seed")
	maxSteps   int
)

func init() {
	cmds.Define("-max-steps", cmds.Func(func(n *int) {
		maxSteps = vars.DerefOrZero(n)
	}).Desc("abort the script after this many steps"))
}

func main() {
	cmds.Execute(os.Args[1:])
	scope := dscope.New(new(Module), modes.ForProduction())
	scope.Call(run)
}

func run(
	logger logs.Logger,
	engine configs.Engine,
	world *worlds.World,
) {
	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: pika -file <script> [-debug] [-config <file>]")
		os.Exit(2)
	}

	content, err := os.ReadFile(*scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	program, err := pikalang.Compile(*scriptPath, string(content))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	registry := pikavm.NewRegistry()
	world.Bind(registry)

	vm := pikavm.NewVM(registry)
	vm.Logger = logger
	vm.MaxCallDepth = engine.MaxCallDepth
	vm.MaxHistory = engine.MaxHistory
	vm.MaxSteps = vars.FirstNonZero(maxSteps, engine.MaxSteps)
	if seed := vars.FirstNonZero(*seedFlag, engine.Seed); seed != 0 {
		vm.Seed(seed)
	}
	vm.OnPrint = func(message string) {
		fmt.Println(message)
	}
	vm.Load(program)

	if *debugMode {
		if err := debugLoop(vm, program); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	for {
		result, err := vm.Step()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if result.Done {
			break
		}
	}

	logger.Info("script finished",
		"steps", vm.StepCount(),
		"atGoal", world.AtGoal(),
	)
}
