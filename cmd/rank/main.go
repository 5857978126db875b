// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// One-shot ranking of the configured dataset to stdout.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"schoolrank/internal/app"
	"schoolrank/internal/config"
	"schoolrank/internal/dataset"
	"schoolrank/internal/logging"
	"schoolrank/internal/ranking"
	"schoolrank/internal/report"
	"schoolrank/internal/version"
)

type options struct {
	weights     []string
	preset      string
	top         int
	format      string
	explain     string
	filter      dataset.Filter
	showVersion bool
}

func addFlags(fs *pflag.FlagSet, o *options) {
	fs.StringArrayVarP(&o.weights, "weight", "w", nil, "Criterion weight as key=value (repeatable; overrides --preset)")
	fs.IntVarP(&o.top, "top", "n", 10, "Number of schools to print (0 = all)")
	fs.StringVarP(&o.format, "format", "f", "markdown", "Output format: json|markdown")
	fs.StringVar(&o.explain, "explain", "", "Explain the rank of one school id instead of printing the table")
	fs.StringVar(&o.filter.City, "filter-city", "", "Only rank schools in this city")
	fs.StringSliceVar(&o.filter.SchoolTypes, "type", nil, "Only rank schools offering any of these types")
	fs.StringVar(&o.filter.Religion, "religion", "", "Only rank schools whose affiliation contains this text")
	fs.Float64Var(&o.filter.MaxBikeMinutes, "max-bike-minutes", 0, "Drop schools with a longer bike commute")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts options
	fs := config.NewFlagSet("rank")
	addFlags(fs, &opts)
	cfg, err := config.LoadFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.showVersion {
		info := version.Info()
		fmt.Printf("schoolrank %s (%s, %s)\n", info.Version, info.Commit, info.Date)
		return
	}
	opts.preset = cfg.Preset

	// stdout carries the result; logs stay on stderr at warn and above unless asked.
	level := cfg.LogLevel
	if !fs.Changed("log-level") && os.Getenv("SCHOOLRANK_LOG_LEVEL") == "" {
		level = "warn"
	}
	logger, err := logging.NewLogger(level)
	if err != nil {
		zap.NewExample().Fatal("failed to init logger", zap.Error(err))
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise", zap.Error(err))
	}
	defer a.Close()

	if err := run(ctx, a, opts, os.Stdout); err != nil {
		logger.Error("rank failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, opts options, w io.Writer) error {
	var weights ranking.Weights
	if len(opts.weights) > 0 {
		parsed, err := parseWeights(opts.weights)
		if err != nil {
			return err
		}
		weights = parsed
	} else {
		preset, _, err := a.Weights(opts.preset)
		if err != nil {
			return err
		}
		weights = preset
	}

	snap, err := a.Store.Snapshot()
	if err != nil {
		return err
	}
	res, err := a.Ranker.Rank(ctx, dataset.Apply(snap, opts.filter), weights)
	if err != nil {
		return err
	}

	if opts.explain != "" {
		e, ok := res.Find(opts.explain)
		if !ok {
			return fmt.Errorf("school %q not found in the ranked set", opts.explain)
		}
		if opts.format == "json" {
			return writeJSON(w, e)
		}
		_, err := io.WriteString(w, report.Explain(e, len(res.Entries)))
		return err
	}

	switch opts.format {
	case "json":
		if opts.top > 0 && opts.top < len(res.Entries) {
			res.Entries = res.Entries[:opts.top]
		}
		return writeJSON(w, res)
	case "markdown":
		_, err := io.WriteString(w, report.Table(res, opts.top))
		return err
	default:
		return fmt.Errorf("unknown format %q: must be json or markdown", opts.format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
