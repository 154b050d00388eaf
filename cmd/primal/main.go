package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/vito/primal/pkg/ioctx"
)

// flags holds the command line values that override primal.toml.
type flags struct {
	configPath  string
	debug       bool
	k           int
	rounds      int
	depth       int
	sampleDepth int
	workers     int
	cacheSize   int
	extract     string
	state       string
}

func main() {
	var f flags
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "primal",
		Short: "Distributional learner for context-free grammars",
		Long: `Primal learns a context-free grammar from positive examples and
membership queries against a target grammar, following Yoshinaka's primal
learner for languages with the k-finite kernel property.`,
		Example: `  # Learn a+ for ten rounds with k=1
  primal learn

  # Resume a stored session and keep learning
  primal learn --state ./.primal --session imp --rounds 5

  # Show a stored hypothesis
  primal show --state ./.primal imp`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			cfg = loaded

			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			cmd.SetContext(ioctx.LoggerToContext(cmd.Context(), logger))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Path to primal.toml (searched upwards by default)")
	pf.BoolVarP(&f.debug, "debug", "d", false, "Enable debug logging")
	pf.IntVar(&f.k, "k", 0, "Maximum kernel size")
	pf.IntVar(&f.rounds, "rounds", 0, "Sentences to consume")
	pf.IntVar(&f.depth, "depth", 0, "Derivation depth of the target text")
	pf.IntVar(&f.sampleDepth, "sample-depth", 0, "Derivation depth of printed samples")
	pf.IntVarP(&f.workers, "workers", "w", 0, "Rule induction workers")
	pf.IntVar(&f.cacheSize, "cache-size", 0, "Oracle LRU cache entries (0 disables)")
	pf.StringVar(&f.extract, "extract", "", "Substring gate: rejected or always")
	pf.StringVar(&f.state, "state", "", "Session store directory (default $PRIMAL_DB)")

	rootCmd.AddCommand(
		learnCmd(&cfg),
		showCmd(&cfg),
		generateCmd(&cfg),
	)

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

// resolveConfig loads primal.toml and applies the flags that were set.
func resolveConfig(cmd *cobra.Command, f flags) (Config, error) {
	var cfg Config
	if f.configPath != "" {
		loaded, err := LoadConfig(f.configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, err
		}
		path, loaded, err := FindConfig(cwd)
		if err != nil {
			return Config{}, err
		}
		if path != "" {
			slog.Debug("loaded config", "path", path)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("k") {
		cfg.K = f.k
	}
	if changed("rounds") {
		cfg.Rounds = f.rounds
	}
	if changed("depth") {
		cfg.Depth = f.depth
	}
	if changed("sample-depth") {
		cfg.SampleDepth = f.sampleDepth
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("cache-size") {
		cfg.CacheSize = f.cacheSize
	}
	if changed("extract") {
		cfg.Extract = f.extract
	}
	if changed("state") {
		cfg.State = f.state
	}
	cfg.Debug = f.debug

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
