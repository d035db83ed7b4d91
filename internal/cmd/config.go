package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dendrascience/hashall/hashall"
	"github.com/dendrascience/hashall/util"
	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// Config holds every setting of a run, filled from flags and, for flags
// left unset, from an optional TOML file.
type Config struct {
	ConfigPath string

	Algorithm util.Algorithm
	All       bool
	Recursive bool
	Archive   bool
	Format    hashall.Format
	Workers   int
	Buffer    string
	Summary   bool

	LogLevel  string
	LogFormat string
	Verbose   bool
}

func defaultConfig() Config {
	return Config{
		Algorithm: util.MD5,
		Format:    hashall.FormatSum,
		Buffer:    "1M",
		LogLevel:  "warn",
		LogFormat: "auto",
	}
}

// fileConfig mirrors the TOML layout; nil fields were absent from the file.
type fileConfig struct {
	Hash      *util.Algorithm `toml:"hash"`
	All       *bool           `toml:"all"`
	Recursive *bool           `toml:"recursive"`
	Archive   *bool           `toml:"archive"`
	Format    *hashall.Format `toml:"format"`
	Workers   *int            `toml:"workers"`
	Buffer    *string         `toml:"buffer"`
	Summary   *bool           `toml:"summary"`
	LogLevel  *string         `toml:"log_level"`
	LogFormat *string         `toml:"log_format"`
}

// loadFile merges the TOML file at c.ConfigPath into c. Values only apply
// to flags the user did not set on the command line.
func (c *Config) loadFile(flags *pflag.FlagSet) error {
	if c.ConfigPath == "" {
		return nil
	}
	f, err := os.Open(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config %s: %s", c.ConfigPath, strings.TrimSpace(strict.String()))
		}
		return fmt.Errorf("config %s: %w", c.ConfigPath, err)
	}

	changed := func(name string) bool {
		flag := flags.Lookup(name)
		return flag != nil && flag.Changed
	}
	apply(&c.Algorithm, fc.Hash, changed("hash"))
	apply(&c.All, fc.All, changed("all"))
	apply(&c.Recursive, fc.Recursive, changed("recursive"))
	apply(&c.Archive, fc.Archive, changed("archive"))
	apply(&c.Format, fc.Format, changed("format"))
	apply(&c.Workers, fc.Workers, changed("workers"))
	apply(&c.Buffer, fc.Buffer, changed("buffer"))
	apply(&c.Summary, fc.Summary, changed("summary"))
	apply(&c.LogLevel, fc.LogLevel, changed("log-level"))
	apply(&c.LogFormat, fc.LogFormat, changed("log-format"))
	return nil
}

func apply[T any](dst *T, src *T, flagSet bool) {
	if src != nil && !flagSet {
		*dst = *src
	}
}

// BufferSize parses the human-readable buffer size ("1M", "64KiB", "4096").
func (c *Config) BufferSize() (int, error) {
	n, err := humanize.ParseBytes(c.Buffer)
	if err != nil {
		return 0, fmt.Errorf("failed to parse buffer size %q (example: 1M, 1MiB, 1MB, 64k, 4096): %w", c.Buffer, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("buffer size %q: %w", c.Buffer, util.ErrBufferSize)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("buffer size %q is larger than %s", c.Buffer, humanize.IBytes(math.MaxInt32))
	}
	return int(n), nil
}

// RunOptions converts the configuration into options for hashall.Run.
func (c *Config) RunOptions(inputs []string) (hashall.Options, error) {
	size, err := c.BufferSize()
	if err != nil {
		return hashall.Options{}, err
	}
	return hashall.Options{
		Inputs:        inputs,
		Algorithm:     c.Algorithm,
		IncludeHidden: c.All,
		Recursive:     c.Recursive,
		Archives:      c.Archive,
		Format:        c.Format,
		Workers:       c.Workers,
		BufferSize:    size,
	}, nil
}

// EnumerateOptions returns the discovery policy shared by every command.
func (c *Config) EnumerateOptions() hashall.EnumerateOptions {
	return hashall.EnumerateOptions{
		IncludeHidden: c.All,
		Recursive:     c.Recursive,
		Archives:      c.Archive,
	}
}
