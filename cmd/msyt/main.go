package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/msyt"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, msyt.Describe(err))
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var g globalOptions

	return &cli.Command{
		Name:  "msyt",
		Usage: "Convert MSBT game text containers to and from editable YAML or JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to a YAML config file (default: <user config dir>/msyt/config.yaml)",
				Destination: &g.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &g.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (pretty, text, json)",
				Value:       "pretty",
				Destination: &g.logFormat,
			},
		},
		Before: g.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			exportCmd(),
			createCmd(),
			verifyCmd(),
		},
	}
}
