// Command ccasswatch scrapes CCASS shareholding disclosures, serves them over
// HTTP and infers candidate transactions between participants.
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
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&serveCmd{}, "server")
	commander.Register(&healthcheckCmd{}, "server")
	commander.Register(&holdingsCmd{}, "query")
	commander.Register(&transactionsCmd{}, "query")
	commander.Register(&stocksCmd{}, "query")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
