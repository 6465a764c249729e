package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/reusee/pika/pikalang"
	"github.com/reusee/pika/pikavm"
)

func debugLoop(vm *pikavm.VM, program *pikalang.Program) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	fmt.Println("commands: step back run break <line> watch <name> vars stack list quit")

	for {
		printPosition(vm, program)

		input, err := state.Prompt("(pika) ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		state.AppendHistory(input)

		fields := strings.Fields(input)
		switch fields[0] {

		case "step", "s":
			result, err := vm.Step()
			if err != nil {
				fmt.Println(err)
				continue
			}
			if result.Done {
				fmt.Println("done")
			}

		case "back", "b":
			if !vm.StepBack() {
				fmt.Println("no history")
			}

		case "run", "continue", "c":
			for {
				result, err := vm.Step()
				if err != nil {
					fmt.Println(err)
					break
				}
				if result.Done {
					fmt.Println("done")
					break
				}
				if line, ok := vm.CurrentLine(); ok && vm.HasBreakpoint(line) {
					fmt.Printf("breakpoint at line %d\n", line)
					break
				}
			}

		case "break":
			if len(fields) != 2 {
				fmt.Println("usage: break <line>")
				continue
			}
			line, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: break <line>")
				continue
			}
			if vm.ToggleBreakpoint(line) {
				fmt.Printf("breakpoint set at line %d\n", line)
			} else {
				fmt.Printf("breakpoint removed at line %d\n", line)
			}

		case "watch":
			if len(fields) != 2 {
				fmt.Println("usage: watch <name>")
				continue
			}
			vm.AddWatch(fields[1])
			printWatches(vm)

		case "vars":
			for name, value := range vm.Variables() {
				fmt.Printf("%s = %s\n", name, pikavm.Format(value))
			}
			printWatches(vm)

		case "stack":
			entries := vm.CallStack()
			if len(entries) == 0 {
				fmt.Println("<top level>")
			}
			for _, entry := range entries {
				fmt.Printf("%s (called at line %d)\n", entry.Name, entry.CallLine)
			}

		case "list", "l":
			printListing(vm, program)

		case "quit", "q", "exit":
			return nil

		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

func printPosition(vm *pikavm.VM, program *pikalang.Program) {
	line, ok := vm.CurrentLine()
	if !ok {
		fmt.Printf("[%s] no current line\n", vm.State())
		return
	}
	text := ""
	if line >= 1 && line <= len(program.Source.Lines) {
		text = program.Source.Lines[line-1]
	}
	fmt.Printf("[%s] line %d: %s\n", vm.State(), line, text)
}

func printWatches(vm *pikavm.VM) {
	for _, watch := range vm.WatchValues() {
		if !watch.Bound {
			fmt.Printf("watch %s = <unbound>\n", watch.Name)
			continue
		}
		fmt.Printf("watch %s = %s\n", watch.Name, pikavm.Format(watch.Value))
	}
}

func printListing(vm *pikavm.VM, program *pikalang.Program) {
	current, hasCurrent := vm.CurrentLine()
	for i, text := range program.Source.Lines {
		line := i + 1
		marker := "  "
		if vm.HasBreakpoint(line) {
			marker = "* "
		}
		if hasCurrent && line == current {
			marker = "> "
		}
		fmt.Printf("%s%4d  %s\n", marker, line, text)
	}
}
