package cmds

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

func (p *Executor) PrintUsage() {
	printCommands(os.Stdout, p.commands, "")
}

func printCommands(w io.Writer, commands map[string]*Command, indent string) {
	printed := make(map[*Command]bool)
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		command := commands[name]
		if printed[command] {
			continue
		}
		printed[command] = true
		names := append([]string{name}, command.Aliases...)
		if command.Description != "" {
			fmt.Fprintf(w, "%s%v\n%s\t%s\n", indent, names, indent, command.Description)
		} else {
			fmt.Fprintf(w, "%s%v\n", indent, names)
		}
		if len(command.Subs) > 0 {
			printCommands(w, command.Subs, indent+"\t")
		}
	}
}
