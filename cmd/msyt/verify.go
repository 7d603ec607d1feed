package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/msyt"
	"github.com/arloliu/msyt/internal/fileio"
	"github.com/arloliu/msyt/internal/hash"
	"github.com/arloliu/msyt/internal/logger"
	"github.com/arloliu/msyt/msbt"
)

func verifyCmd() *cli.Command {
	var (
		text  bool
		batch batchOptions
	)

	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that .msbt files re-encode byte for byte",
		ArgsUsage: "<file or directory>",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "text",
				Usage:       "also check that the entries survive a YAML round trip",
				Destination: &text,
			},
		}, batch.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, err := requireInput(cmd)
			if err != nil {
				return err
			}
			batch.apply(cmd, configFrom(ctx))

			jobs, err := planJobs(input, "", extBinary, extBinary, "")
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("verifying", "input", input, "files", len(jobs))

			st, err := runJobs(ctx, jobs, batch.jobs, batch.keepGoing, func(_ context.Context, j job) (bool, error) {
				return true, verifyFile(j.in, text)
			})
			report(outWriter(cmd), "verified", st)

			return err
		},
	}
}

// verifyFile decodes the container at path, re-encodes it and compares the
// digests of both. With text set, the model must also survive a YAML round
// trip unchanged.
func verifyFile(path string, text bool) error {
	var (
		m      *msbt.Model
		digest uint64
	)
	err := fileio.Load(path, func(data []byte) error {
		var err error
		digest = hash.Digest(data)
		m, err = msyt.ParseBinary(data)

		return err
	})
	if err != nil {
		return err
	}

	out, err := msyt.ToBinary(m)
	if err != nil {
		return err
	}
	if got := hash.Digest(out); got != digest {
		return fmt.Errorf("re-encoded container differs: xxhash %016x, want %016x", got, digest)
	}

	if !text {
		return nil
	}

	doc, err := msyt.ToYAML(m)
	if err != nil {
		return err
	}
	back, err := msyt.ParseYAML(doc)
	if err != nil {
		return err
	}

	want, got := m.Entries(), back.Entries()
	if len(want) != len(got) {
		return fmt.Errorf("YAML round trip has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if !want[i].Equal(got[i]) {
			return fmt.Errorf("YAML round trip changed entry %q", want[i].Label)
		}
	}

	return nil
}
