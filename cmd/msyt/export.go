package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/msyt"
	"github.com/arloliu/msyt/internal/fileio"
	"github.com/arloliu/msyt/internal/logger"
	"github.com/arloliu/msyt/msbt"
)

func exportCmd() *cli.Command {
	var (
		output string
		asJSON bool
		batch  batchOptions
	)

	return &cli.Command{
		Name:      "export",
		Usage:     "Convert .msbt files (optionally .zs, .s2 or .lz4 compressed) to .msyt documents",
		ArgsUsage: "<file or directory>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file or directory (default: next to the input)",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "write JSON instead of YAML",
				Destination: &asJSON,
			},
		}, batch.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, err := requireInput(cmd)
			if err != nil {
				return err
			}

			cfg := configFrom(ctx)
			if cfg.JSON != nil && !cmd.IsSet("json") {
				asJSON = *cfg.JSON
			}
			batch.apply(cmd, cfg)

			jobs, err := planJobs(input, output, extBinary, extText, "")
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("exporting", "input", input, "files", len(jobs))

			st, err := runJobs(ctx, jobs, batch.jobs, batch.keepGoing, func(_ context.Context, j job) (bool, error) {
				return exportFile(j, asJSON)
			})
			report(outWriter(cmd), "exported", st)

			return err
		},
	}
}

// exportFile converts one container to a document.
func exportFile(j job, asJSON bool) (bool, error) {
	var m *msbt.Model
	err := fileio.Load(j.in, func(data []byte) error {
		var err error
		m, err = msyt.ParseBinary(data)

		return err
	})
	if err != nil {
		return false, err
	}

	var doc []byte
	if asJSON {
		doc, err = msyt.ToJSON(m)
	} else {
		doc, err = msyt.ToYAML(m)
	}
	if err != nil {
		return false, err
	}

	return fileio.WriteIfChanged(j.out, doc, 0o644)
}
