package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/msyt"
	"github.com/arloliu/msyt/internal/fileio"
	"github.com/arloliu/msyt/internal/logger"
	"github.com/arloliu/msyt/msbt"
)

func createCmd() *cli.Command {
	var (
		output       string
		bigEndian    bool
		littleEndian bool
		compression  string
		batch        batchOptions
	)

	return &cli.Command{
		Name:      "create",
		Usage:     "Convert .msyt documents (YAML or JSON) to .msbt files",
		ArgsUsage: "<file or directory>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file or directory (default: next to the input); a .zs, .s2 or .lz4 file name compresses the output",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "big-endian",
				Aliases:     []string{"b"},
				Usage:       "write big-endian containers (Wii U, 3DS)",
				Destination: &bigEndian,
			},
			&cli.BoolFlag{
				Name:        "little-endian",
				Aliases:     []string{"l"},
				Usage:       "write little-endian containers (Switch)",
				Destination: &littleEndian,
			},
			&cli.StringFlag{
				Name:        "compression",
				Aliases:     []string{"c"},
				Usage:       "wrapper for files created from a directory (none, zstd, s2, lz4)",
				Destination: &compression,
			},
		}, batch.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, err := requireInput(cmd)
			if err != nil {
				return err
			}

			cfg := configFrom(ctx)
			if cfg.BigEndian != nil && !cmd.IsSet("big-endian") && !cmd.IsSet("little-endian") {
				bigEndian = *cfg.BigEndian
				littleEndian = !*cfg.BigEndian
			}
			if cfg.Compression != "" && !cmd.IsSet("compression") {
				compression = cfg.Compression
			}
			batch.apply(cmd, cfg)

			if bigEndian && littleEndian {
				return errors.New("create: --big-endian and --little-endian are exclusive")
			}

			var opts []msbt.EncodeOption
			switch {
			case bigEndian:
				opts = append(opts, msbt.WithBigEndian())
			case littleEndian:
				opts = append(opts, msbt.WithLittleEndian())
			}

			ct, err := parseCompression(compression)
			if err != nil {
				return err
			}

			jobs, err := planJobs(input, output, extText, extBinary, ct.Suffix())
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("creating", "input", input, "files", len(jobs))

			st, err := runJobs(ctx, jobs, batch.jobs, batch.keepGoing, func(_ context.Context, j job) (bool, error) {
				return createFile(j, opts)
			})
			report(outWriter(cmd), "created", st)

			return err
		},
	}
}

// createFile converts one document to a container. Without options the byte
// order recorded in the document is used.
func createFile(j job, opts []msbt.EncodeOption) (bool, error) {
	doc, err := fileio.ReadFile(j.in)
	if err != nil {
		return false, err
	}

	m, err := msyt.ParseText(doc)
	if err != nil {
		return false, err
	}

	data, err := msyt.ToBinary(m, opts...)
	if err != nil {
		return false, err
	}

	return fileio.WriteIfChanged(j.out, data, 0o644)
}
