package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/ioctx"
	"github.com/vito/primal/pkg/learner"
	"github.com/vito/primal/pkg/store"
)

func showCmd(cfg *Config) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "show [session]",
		Short: "Print a stored hypothesis and sample derivations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := "default"
			if len(args) == 1 {
				session = args[0]
			}
			return runShow(cmd.Context(), *cfg, session, list)
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List stored sessions instead")
	return cmd
}

func runShow(ctx context.Context, cfg Config, session string, list bool) error {
	if cfg.State == "" {
		return fmt.Errorf("no session store configured (set --state or PRIMAL_DB)")
	}
	st, err := store.Open(store.Config{Path: cfg.State})
	if err != nil {
		return err
	}
	defer st.Close()

	out := ioctx.StdoutFromContext(ctx)
	if list {
		names, err := st.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	rec, err := st.Load(session)
	if err != nil {
		return err
	}
	l, err := learner.Restore(rec.Snapshot, nil, nil)
	if err != nil {
		return fmt.Errorf("restore session %s: %w", session, err)
	}
	stats := l.Stats()
	fmt.Fprintf(out, "Session %s (%s), saved %s\n", rec.Name, l.Session(), rec.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "k=%d data=%d substrings=%d contexts=%d kernels=%d\n\n",
		l.K(), stats.Data, stats.Substrings, stats.Contexts, stats.Kernels)
	fmt.Fprint(out, l.Guess().String())
	printSamples(out, l.Guess(), cfg.SampleDepth)
	return nil
}

func printSamples(out io.Writer, g *grammar.Grammar, depth int) {
	fmt.Fprintln(out, "\nGenerate from Current Guess:")
	for s := range g.Generate(depth) {
		fmt.Fprintln(out, s.String())
	}
}
