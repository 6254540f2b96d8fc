package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Olnarrosh/dependency-parser/app"
	"github.com/Olnarrosh/dependency-parser/webapi"

	"github.com/gonuts/commander"
)

var cmd = &commander.Command{
	UsageLine: os.Args[0] + " mst|depeval|api",
	Short:     "train, run and evaluate a graph-based dependency parser",
}

func init() {
	cmd.Subcommands = append(app.AllCommands().Subcommands, webapi.AllCommands().Subcommands...)
}

func exit(err error) {
	fmt.Printf("**error**: %v\n", err)
	os.Exit(1)
}

func main() {
	if err := cmd.Dispatch(context.Background(), os.Args[1:]); err != nil {
		exit(err)
	}
}
