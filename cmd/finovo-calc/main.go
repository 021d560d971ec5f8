// Command finovo-calc runs the Finovo calculators and learning pages in a
// terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "calculators")
	}
	commander.Register(&learnCmd{}, "learn")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
