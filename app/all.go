package app

import (
	"os"

	"github.com/gonuts/commander"
)

var AppCommands []*commander.Command = []*commander.Command{
	MSTCmd(),
	DepEvalCmd(),
}

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine:   os.Args[0] + " app",
		Short:       "invoke the parser as a standalone app",
		Subcommands: AppCommands,
	}
	for _, app := range cmd.Subcommands {
		app.Run = NewAppWrapCommand(app.Run)
	}
	return cmd
}

func InitCommand(cmd *commander.Command, args []string) {
	allOut = !quiet
}

func NewAppWrapCommand(f func(cmd *commander.Command, args []string) error) func(cmd *commander.Command, args []string) error {
	wrapped := func(cmd *commander.Command, args []string) error {
		InitCommand(cmd, args)
		return f(cmd, args)
	}
	return wrapped
}
