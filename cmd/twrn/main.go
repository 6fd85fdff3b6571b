package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"twrn/build"
	"twrn/config"
	"twrn/misc"
	"twrn/state"
)

func main() {

	// interrupt stops watching and kills running Tailwind
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "builds React Native style map from Tailwind utility classes",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "build",
				Usage:        "Compiles Tailwind stylesheet and writes style map (JSON)",
				OnUsageError: usageErrorHandler,
				Action:       build.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tailwind-config", Aliases: []string{"t"},
						Usage: "Tailwind configuration `FILE` or directory containing " + build.ConfigName + " (relative to working directory)"},
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "rebuild on every change of Tailwind configuration"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write style map to `FILE` instead of configured one"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
When Tailwind configuration is absent precompiled stylesheet bundled with the
program is used and --watch has no effect.

Only utility classes React Native could express are kept, rem units are
converted to pixels. Use "classes" command to see what is supported.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "classes",
				Usage:        "Lists utility classes of a stylesheet which are translated into styles",
				OnUsageError: usageErrorHandler,
				Action:       build.Classes,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dropped", Usage: "list classes which are ignored instead"},
				},
				ArgsUsage: "[STYLESHEET]",
				CustomHelpTemplate: fmt.Sprintf(`%s
STYLESHEET:
    compiled CSS file, if absent - precompiled stylesheet bundled with the program
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or effective configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Effective configuration is composed of defaults, values from configuration file
and %s_* environment overrides. Use --default to see configuration embedded
into the program.
`, cli.CommandHelpTemplate, config.EnvPrefix),
			},
		},
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		// logger is not ready yet or already closed
		if !errWasHandled {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}

