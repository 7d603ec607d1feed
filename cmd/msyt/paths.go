package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/msyt/format"
)

const (
	extBinary = ".msbt"
	extText   = ".msyt"
)

// job is one file conversion.
type job struct {
	in  string
	out string
}

func requireInput(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s: expected exactly one input file or directory", cmd.Name)
	}

	return filepath.Clean(cmd.Args().First()), nil
}

// planJobs lists the conversions for input.
//
// A file input converts to output, or next to the input when output is empty;
// an existing output directory receives the converted file. A directory input
// converts every file whose extension, ignoring a compression suffix, is
// fromExt. The tree is mirrored below output, or converted in place when
// output is empty. suffix is appended to output names in tree mode.
func planJobs(input, output, fromExt, toExt, suffix string) ([]job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		name := outputName(input, toExt, "")
		switch {
		case output == "":
			output = name
		case isDir(output):
			output = filepath.Join(output, filepath.Base(name))
		}

		return []job{{in: input, out: filepath.Clean(output)}}, nil
	}

	root := output
	if root == "" {
		root = input
	}

	var jobs []job
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasExt(path, fromExt) {
			return nil
		}

		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{in: path, out: filepath.Join(root, outputName(rel, toExt, suffix))})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// hasExt reports whether path has extension ext once a compression suffix
// is removed, ignoring case.
func hasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(format.TrimCompressionSuffix(path)), ext)
}

// outputName replaces the extension of path, compression suffix included,
// with ext followed by suffix.
func outputName(path, ext, suffix string) string {
	base := format.TrimCompressionSuffix(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return base + ext + suffix
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// parseCompression maps a --compression value to its wrapper type.
func parseCompression(name string) (format.CompressionType, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return format.CompressionNone, nil
	case "zstd", "zs":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (none, zstd, s2, lz4)", name)
	}
}
