package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vito/primal/pkg/ioctx"
	"github.com/vito/primal/pkg/text"
)

func generateCmd(cfg *Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the text the learner would be fed from the target grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), *cfg, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many sentences (0 prints all)")
	return cmd
}

func runGenerate(ctx context.Context, cfg Config, limit int) error {
	target, err := cfg.TargetGrammar()
	if err != nil {
		return err
	}
	src := text.FromGrammar(target, cfg.Depth)
	defer src.Close()

	out := ioctx.StdoutFromContext(ctx)
	for n := 0; limit == 0 || n < limit; n++ {
		s, ok := src.Next()
		if !ok {
			break
		}
		fmt.Fprintln(out, s.String())
	}
	return nil
}
