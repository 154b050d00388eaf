package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/ioctx"
	"github.com/vito/primal/pkg/learner"
	"github.com/vito/primal/pkg/oracle"
	"github.com/vito/primal/pkg/store"
	"github.com/vito/primal/pkg/text"
)

func learnCmd(cfg *Config) *cobra.Command {
	var session, metricsAddr string
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Run learning rounds against the target grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLearn(cmd.Context(), *cfg, session, metricsAddr)
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "default", "Session name in the store")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while learning")
	return cmd
}

func runLearn(ctx context.Context, cfg Config, session, metricsAddr string) error {
	log := ioctx.LoggerFromContext(ctx)
	out := ioctx.StdoutFromContext(ctx)

	target, err := cfg.TargetGrammar()
	if err != nil {
		return err
	}
	gate, err := cfg.Gate()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := oracle.NewMetrics(reg)
	counter := oracle.NewCounter(oracle.NewGrammar(target), metrics)
	var o oracle.Oracle = counter
	if cfg.CacheSize > 0 {
		cache, err := oracle.NewCache(counter, cfg.CacheSize, metrics)
		if err != nil {
			return err
		}
		o = cache
	}

	if metricsAddr != "" {
		stop, err := serveMetrics(ctx, metricsAddr, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	src := text.FromGrammar(target, cfg.Depth)
	defer src.Close()

	var st *store.Store
	if cfg.State != "" {
		st, err = store.Open(store.Config{Path: cfg.State, SyncWrites: true})
		if err != nil {
			return err
		}
		defer st.Close()
	}

	l, err := openLearner(ctx, st, session, src, o, cfg, gate)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Start Learning")
	var guess *grammar.Grammar
	for range cfg.Rounds {
		start := time.Now()
		guess, err = l.Advance(ctx)
		if err != nil {
			break
		}
		fmt.Fprintf(out, "Time Elapsed: %.2f seconds\n", time.Since(start).Seconds())
	}
	if err != nil {
		// whatever was committed before the interruption is still worth keeping
		if saveErr := saveLearner(st, session, l); saveErr != nil {
			log.Warn("failed to save interrupted session", "session", session, "error", saveErr)
		}
		return err
	}
	if guess == nil {
		guess = l.Guess()
	}
	fmt.Fprint(out, "Learning Complete\n\n")

	if cfg.Debug {
		log.Debug("learner state", "stats", pretty.Sprint(l.Stats()), "oracle_calls", counter.Calls())
	}

	fmt.Fprint(out, guess.String())
	printSamples(out, guess, cfg.SampleDepth)

	return saveLearner(st, session, l)
}

// openLearner resumes the named session if the store has it.
func openLearner(ctx context.Context, st *store.Store, session string, src text.Text, o oracle.Oracle, cfg Config, gate learner.Gate) (*learner.Learner, error) {
	opts := []learner.Option{learner.WithGate(gate), learner.WithWorkers(cfg.Workers)}
	if st == nil {
		return learner.New(src, o, cfg.K, opts...), nil
	}

	rec, err := st.Load(session)
	if errors.Is(err, store.ErrNotFound) {
		return learner.New(src, o, cfg.K, opts...), nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Snapshot.K != cfg.K {
		return nil, fmt.Errorf("session %s was learned with k=%d, not k=%d", session, rec.Snapshot.K, cfg.K)
	}
	l, err := learner.Restore(rec.Snapshot, src, o, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", session, err)
	}
	// pick up the text where the stored session stopped
	if skipped := text.Skip(src, rec.Snapshot.Consumed); skipped < rec.Snapshot.Consumed {
		ioctx.LoggerFromContext(ctx).Warn("text is shorter than the stored session", "session", session,
			"consumed", rec.Snapshot.Consumed, "available", skipped)
	}
	return l, nil
}

func saveLearner(st *store.Store, session string, l *learner.Learner) error {
	if st == nil {
		return nil
	}
	return st.Save(session, l.Snapshot())
}

// serveMetrics exposes reg on addr until the returned stop is called.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log := ioctx.LoggerFromContext(ctx)
	log.Info("serving metrics", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", "error", err)
		}
	}()
	return func() {
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}, nil
}
