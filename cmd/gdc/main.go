package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"gdc/convert"
	"gdc/misc"
	"gdc/state"
)

const exportHelp = `%s
SOURCE:
    document to export, one of:
        document URL: "https://docs.google.com/document/d/<id>/edit"
        document id: "<id>"
        path to saved documents.get response: "[path_to_file]document.json"

    Remote documents are read with service account configured in "source"
    section, document must be shared with that account.

DESTINATION:
    directory to create output directory in, its name comes from document
    title or output name template, if absent - current working directory
`

const dumpconfigHelp = `%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Without --default prints configuration in effect: embedded defaults with
values from configuration file applied. Secrets are masked.
`

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "exports Google Docs documents to self-contained HTML",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          setupEnv,
		After:           teardownEnv,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: commandNotFound,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "produce report archive to help troubleshooting"},
		},
		Commands: []*cli.Command{
			{
				Name:               "export",
				Usage:              "Exports document to HTML page",
				OnUsageError:       usageErrorHandler,
				Action:             convert.Run,
				ArgsUsage:          "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(exportHelp, cli.CommandHelpTemplate),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing output"},
				},
			},
			{
				Name:               "dumpconfig",
				Usage:              "Dumps either default or actual configuration (YAML)",
				OnUsageError:       usageErrorHandler,
				Action:             dumpConfiguration,
				ArgsUsage:          "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(dumpconfigHelp, cli.CommandHelpTemplate),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		// logger may be gone or not created yet
		if !errLogged {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
