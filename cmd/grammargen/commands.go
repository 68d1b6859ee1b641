package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"grammargen/internal/config"
	"grammargen/internal/grammar"
	"grammargen/internal/metrics"
)

type app struct {
	cfg         config.Config
	configPath  string
	metricsFile string
	log         *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	root := &cobra.Command{
		Use:               "grammargen",
		Short:             "Compile BNF grammars, count and sample the strings they derive",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML config file")
	f.String("start", a.cfg.Start, "start rule identifier")
	f.Int("bound", a.cfg.RecursionBound, "expansions of one rule allowed in progress before it is cut off")
	f.Int("max-nesting", a.cfg.MaxNesting, "maximum bracket nesting in one expression")
	f.String("log-level", a.cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	root.AddCommand(a.countCmd(), a.sampleCmd(), a.treeCmd(), a.dotCmd())
	return root
}

// setup applies the config file, then any flags set on the command line.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		a.cfg.Start, _ = flags.GetString("start")
	}
	if flags.Changed("bound") {
		a.cfg.RecursionBound, _ = flags.GetInt("bound")
	}
	if flags.Changed("max-nesting") {
		a.cfg.MaxNesting, _ = flags.GetInt("max-nesting")
	}
	if flags.Changed("log-level") {
		a.cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.cfg.LogLevel)); err != nil {
		return err
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// compile loads the grammar at path and compiles its start rule.
func (a *app) compile(path string) (*grammar.Node, metrics.Report, error) {
	report := metrics.Report{Grammar: path}

	tab, err := grammar.LoadTableFile(path)
	if err != nil {
		return nil, report, err
	}
	report.Rules = tab.Len()

	opts := append(a.cfg.SessionOptions(), grammar.WithLogger(a.log))
	s := grammar.NewSession(tab, opts...)
	n, err := s.CompileStart()
	report.Stats = s.Stats()
	if err != nil {
		return nil, report, err
	}

	a.log.Info("compiled grammar",
		"file", path,
		"start", a.cfg.Start,
		"rules", tab.Len(),
		"expanded", report.Stats.Expanded,
		"cache_hits", report.Stats.CacheHits,
		"cutoffs", report.Stats.Cutoffs)
	return n, report, nil
}

func (a *app) writeMetrics(r metrics.Report) error {
	if a.metricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.metricsFile, r); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.log.Debug("metrics written", "path", a.metricsFile)
	return nil
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count GRAMMAR",
		Short: "Print how many distinct strings the start rule can produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, report, err := a.compile(args[0])
			if err != nil {
				return err
			}
			report.Possibilities = grammar.Count(n)
			fmt.Fprintln(cmd.OutOrStdout(), report.Possibilities)
			return a.writeMetrics(report)
		},
	}
}

func (a *app) sampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample GRAMMAR",
		Short: "Print random strings produced by the start rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("count") {
				a.cfg.Samples, _ = flags.GetInt("count")
			}
			if flags.Changed("seed") {
				a.cfg.Seed, _ = flags.GetUint64("seed")
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			n, report, err := a.compile(args[0])
			if err != nil {
				return err
			}

			seed := a.cfg.Seed
			if seed == 0 {
				seed = rand.Uint64()
			}
			a.log.Info("sampling", "count", a.cfg.Samples, "seed", seed)

			sm := grammar.NewSampler(seed)
			out := cmd.OutOrStdout()
			for i := 0; i < a.cfg.Samples; i++ {
				fmt.Fprintln(out, sm.Sample(n))
			}
			return a.writeMetrics(report)
		},
	}
	cmd.Flags().IntP("count", "n", a.cfg.Samples, "number of strings to print")
	cmd.Flags().Uint64("seed", 0, "sampler seed, 0 for a random one")
	return cmd
}

func (a *app) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree GRAMMAR",
		Short: "Print the compiled expression tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, report, err := a.compile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), grammar.TreeString(n))
			return a.writeMetrics(report)
		},
	}
}

func (a *app) dotCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "dot GRAMMAR",
		Short: "Write the compiled tree as a Graphviz digraph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, report, err := a.compile(args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outFile != "" && outFile != "-" {
				f, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := grammar.ExportDOT(w, n); err != nil {
				return err
			}
			if outFile != "" && outFile != "-" {
				a.log.Info("DOT written", "path", outFile)
			}
			return a.writeMetrics(report)
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "-", "output file, - for stdout")
	return cmd
}
