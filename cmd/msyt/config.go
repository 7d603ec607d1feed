package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/msyt/internal/fileio"
	"github.com/arloliu/msyt/internal/logger"
)

// Config represents the msyt configuration file (<user config dir>/msyt/config.yaml).
// Optional fields are pointers so we can distinguish "not set" from zero values.
// Flags set on the command line always win.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Jobs      *int  `yaml:"jobs"`
	KeepGoing *bool `yaml:"keep_going"`

	// Export
	JSON *bool `yaml:"json"`

	// Create
	BigEndian   *bool  `yaml:"big_endian"`
	Compression string `yaml:"compression"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "msyt", "config.yaml")
}

// LoadConfig reads the config file at path. An empty path selects the
// default location, which may be absent; an explicit path must exist.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return Config{}, nil
		}
	}

	data, err := fileio.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}

// globalOptions holds the flags of the root command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// before loads the config file and attaches it and the logger to the context.
func (g *globalOptions) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(g.configPath)
	if err != nil {
		return ctx, err
	}

	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		g.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		g.logFormat = cfg.LogFormat
	}

	level, err := logger.ParseLevel(g.logLevel)
	if err != nil {
		return ctx, err
	}

	w := cmd.Root().ErrWriter
	if w == nil {
		w = os.Stderr
	}
	log, err := logger.NewWithFormat(w, g.logFormat, level, isTerminal(w))
	if err != nil {
		return ctx, err
	}

	ctx = logger.WithContext(ctx, log)
	ctx = withConfig(ctx, cfg)

	return ctx, nil
}

// batchOptions are the flags shared by the commands that process file trees.
type batchOptions struct {
	jobs      int
	keepGoing bool
}

func (b *batchOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "jobs",
			Aliases:     []string{"j"},
			Usage:       "number of files processed in parallel (0 = number of CPUs)",
			Destination: &b.jobs,
		},
		&cli.BoolFlag{
			Name:        "keep-going",
			Aliases:     []string{"k"},
			Usage:       "continue with the remaining files when one fails",
			Destination: &b.keepGoing,
		},
	}
}

// apply fills unset batch flags from the config file.
func (b *batchOptions) apply(cmd *cli.Command, cfg Config) {
	if cfg.Jobs != nil && !cmd.IsSet("jobs") {
		b.jobs = *cfg.Jobs
	}
	if cfg.KeepGoing != nil && !cmd.IsSet("keep-going") {
		b.keepGoing = *cfg.KeepGoing
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return stat.Mode()&os.ModeCharDevice != 0
}
