package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/zbench/bench"
	"github.com/arloliu/zbench/corpus"
	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zbench",
		Short: "Compare the throughput of zlib engines",
		Long: `zbench measures compression and decompression throughput of several
zlib implementations on the same corpus and prints one MB/s figure per engine.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.DurationVar(&a.minDuration, "min-duration", bench.DefaultMinDuration, "minimum timed duration per configuration")
	flags.IntVar(&a.maxIterations, "max-iterations", bench.DefaultMaxIterations, "maximum timed calls per configuration")
	flags.StringSliceVar(&a.engines, "engines", nil, "comma separated engine names (default all)")
	flags.IntVar(&a.parallel, "parallel", 1, "configurations measured concurrently")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		a.deflateAllCommand(),
		a.inflateAllCommand(),
		a.deflateCommand(),
		a.inflateCommand(),
		a.levelsCommand(),
		a.prepareCommand(),
		a.enginesCommand(),
	)

	return root
}

func (a *app) deflateAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deflate-all <level> <corpus-path>",
		Short: "Compress the corpus with every engine at one level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(args[0])
			if err != nil {
				return err
			}

			registry, err := a.selection()
			if err != nil {
				return err
			}
			d, err := a.newDriver(registry)
			if err != nil {
				return err
			}

			r, err := d.DeflateAll(cmd.Context(), corpus.File{Path: args[1], Kind: corpus.KindRaw}, level)
			if err != nil {
				return err
			}

			return a.emit(r)
		},
	}
}

func (a *app) inflateAllCommand() *cobra.Command {
	var (
		raw   bool
		level int
	)

	cmd := &cobra.Command{
		Use:   "inflate-all <corpus-path>",
		Short: "Decompress the corpus with every engine",
		Long: `inflate-all decompresses a zlib corpus with every engine.

With --raw the corpus is uncompressed input; each engine first compresses it
at --level and then decompresses its own stream.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.selection()
			if err != nil {
				return err
			}
			d, err := a.newDriver(registry)
			if err != nil {
				return err
			}

			r, err := d.InflateAll(cmd.Context(), corpus.File{Path: args[0], Kind: corpusKind(raw)}, level)
			if err != nil {
				return err
			}

			return a.emit(r)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "the corpus is uncompressed")
	cmd.Flags().IntVar(&level, "level", format.DefaultLevel, "compression level for --raw corpora")

	return cmd
}

func (a *app) deflateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deflate <level> <engine> <corpus-path>",
		Short: "Compress the corpus with one engine",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(args[0])
			if err != nil {
				return err
			}

			return a.single(cmd, args[1], corpus.File{Path: args[2], Kind: corpus.KindRaw}, bench.Configuration{
				Level: level,
				Mode:  format.ModeCompress,
			})
		},
	}
}

func (a *app) inflateCommand() *cobra.Command {
	var (
		raw   bool
		level int
	)

	cmd := &cobra.Command{
		Use:   "inflate <engine> <corpus-path>",
		Short: "Decompress the corpus with one engine",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.single(cmd, args[0], corpus.File{Path: args[1], Kind: corpusKind(raw)}, bench.Configuration{
				Level: level,
				Mode:  format.ModeDecompress,
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "the corpus is uncompressed")
	cmd.Flags().IntVar(&level, "level", format.DefaultLevel, "compression level for --raw corpora")

	return cmd
}

// single measures one configuration of the named engine.
func (a *app) single(cmd *cobra.Command, name string, src corpus.Source, cfg bench.Configuration) error {
	h, err := a.registry.Lookup(name)
	if err != nil {
		return err
	}
	cfg.Engine = h

	registry, err := engine.NewRegistry(h)
	if err != nil {
		return err
	}
	d, err := a.newDriver(registry)
	if err != nil {
		return err
	}

	r, err := d.Run(cmd.Context(), src, []bench.Configuration{cfg})
	if err != nil {
		return err
	}

	return a.emit(r)
}

func (a *app) levelsCommand() *cobra.Command {
	var levels []int

	cmd := &cobra.Command{
		Use:   "levels <corpus-path>",
		Short: "Compress the corpus with every engine at every level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.selection()
			if err != nil {
				return err
			}
			d, err := a.newDriver(registry)
			if err != nil {
				return err
			}

			r, err := d.Levels(cmd.Context(), corpus.File{Path: args[0], Kind: corpus.KindRaw}, levels)
			if err != nil {
				return err
			}

			return a.emit(r)
		},
	}

	cmd.Flags().IntSliceVar(&levels, "levels", allLevels(), "comma separated compression levels")

	return cmd
}

func (a *app) prepareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare <level> <input> <output>",
		Short: "Write a zlib corpus compressed by the reference engine",
		Long: `prepare compresses input with zlib-go and writes the stream to output,
producing a corpus every engine can decode. Either path may end in .zst,
.s2 or .lz4 to read or write a container-compressed file.`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			level, err := parseLevel(args[0])
			if err != nil {
				return err
			}
			if !format.ValidLevel(level) {
				return fmt.Errorf("%w: %d", errs.ErrInvalidLevel, level)
			}

			c, err := corpus.Load(args[1], corpus.KindRaw)
			if err != nil {
				return err
			}

			stream, err := engine.NewStdlibEngine().Compress(c.Bytes(), level)
			if err != nil {
				return err
			}
			if err := corpus.Save(args[2], stream); err != nil {
				return err
			}

			a.logger.Info("corpus prepared",
				"input", args[1],
				"output", args[2],
				"level", level,
				"raw_bytes", c.Len(),
				"zlib_bytes", len(stream),
			)

			return nil
		},
	}
}

func (a *app) enginesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the engines built into this binary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var b strings.Builder
			for _, name := range a.registry.Names() {
				b.WriteString(name)
				b.WriteByte('\n')
			}
			for _, t := range format.EngineTypes() {
				if _, err := a.registry.Lookup(t.String()); err != nil {
					fmt.Fprintf(&b, "%s (unavailable)\n", t)
				}
			}

			_, err := fmt.Fprint(a.stdout, b.String())

			return err
		},
	}
}

func corpusKind(raw bool) corpus.Kind {
	if raw {
		return corpus.KindRaw
	}

	return corpus.KindZlib
}

func allLevels() []int {
	levels := make([]int, 0, format.MaxLevel-format.MinLevel+1)
	for l := format.MinLevel; l <= format.MaxLevel; l++ {
		levels = append(levels, l)
	}

	return levels
}
