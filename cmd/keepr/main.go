package main

import (
	"fmt"
	"io"
	"os"

	. "github.com/warpfork/go-errcat"
	"gopkg.in/alecthomas/kingpin.v2"

	"go.polydawn.net/keepr/api/def"
)

func main() {
	bhv := Main(os.Args, os.Stdin, os.Stdout, os.Stderr)
	err := bhv.action()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}
	os.Exit(def.ExitCodeForError(err))
}

// Holder type which makes it easier for us to inspect
//  the args parser result in test code before running logic.
type behavior struct {
	parsedArgs interface{}
	action     func() error
}

func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) behavior {
	// CLI boilerplate.
	app := kingpin.New("keepr", "Incremental, cache-backed pipelines.")
	app.HelpFlag.Short('h')
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	bhvs := map[string]behavior{}
	{
		cmdExamine := app.Command("examine", "Render a workflow snapshot document for human eyes.")
		argsExamine := struct {
			SnapshotPath string
		}{}
		cmdExamine.Arg("snapshot", "Path to a .graph.json file from a run's summary namespace.").
			Required().
			StringVar(&argsExamine.SnapshotPath)
		bhvs[cmdExamine.FullCommand()] = behavior{&argsExamine, func() error {
			return ExamineCmd(argsExamine.SnapshotPath, stdout)
		}}
	}
	{
		cmdVersion := app.Command("version", "Print version and build metadata.")
		bhvs[cmdVersion.FullCommand()] = behavior{nil, func() error {
			return VersionCmd(stdout)
		}}
	}

	// Parse!
	parsedCmdStr, err := app.Parse(args[1:])
	if err != nil {
		return behavior{
			parsedArgs: err,
			action: func() error {
				return Errorf(def.ErrUsage, "error parsing args: %s", err)
			},
		}
	}
	// Return behavior named by the command and subcommand strings.
	if bhv, ok := bhvs[parsedCmdStr]; ok {
		return bhv
	}
	panic("unreachable, cli parser must error on unknown commands")
}
