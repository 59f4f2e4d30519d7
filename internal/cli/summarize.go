package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thebtf/threaddigest/internal/config"
	"github.com/thebtf/threaddigest/internal/digest"
	"github.com/thebtf/threaddigest/internal/payload"
	"github.com/thebtf/threaddigest/pkg/hdbscan"
)

var (
	summarizeInput        string
	summarizeOutput       string
	summarizeFormat       string
	summarizeOutputFormat string
	summarizeMinCluster   int
	summarizeMinSamples   int
	summarizeMetric       string
	summarizeSelection    string
	summarizeSingle       bool
	summarizeFallback     bool
	summarizeDetails      bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Pick one representative message per cluster",
	Long: `Reads a document with "embeddings" and "messages", clusters the embeddings
with HDBSCAN and writes {"representatives": [...]} holding, for every
cluster, the message nearest to the cluster centroid. Outliers are ignored.

Nothing is written when the input is malformed or clustering fails.`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

func init() {
	f := summarizeCmd.Flags()
	f.StringVarP(&summarizeInput, "input", "i", "-", "input file, - for stdin")
	f.StringVarP(&summarizeOutput, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&summarizeFormat, "format", "", "input format: json or yaml (default from file extension)")
	f.StringVar(&summarizeOutputFormat, "output-format", "", "output format: json or yaml (default json)")
	f.IntVar(&summarizeMinCluster, "min-cluster-size", hdbscan.DefaultMinClusterSize, "minimum number of messages that form a cluster")
	f.IntVar(&summarizeMinSamples, "min-samples", 0, "neighbourhood size for core distances (0 = min-cluster-size)")
	f.StringVar(&summarizeMetric, "metric", string(hdbscan.MetricEuclidean), "distance metric: euclidean or cosine")
	f.StringVar(&summarizeSelection, "selection", string(hdbscan.SelectionEOM), "cluster selection: eom or leaf")
	f.BoolVar(&summarizeSingle, "allow-single-cluster", false, "allow the whole batch to form one cluster")
	f.BoolVar(&summarizeFallback, "fallback", false, "pick heuristic representatives when no cluster forms")
	f.BoolVar(&summarizeDetails, "details", false, "include per-cluster selection details")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inFormat, err := inputFormat(cmd)
	if err != nil {
		return err
	}
	outFormat, err := payload.ParseFormat(summarizeOutputFormat)
	if err != nil {
		return err
	}

	in, err := readInput(cmd, inFormat)
	if err != nil {
		return err
	}

	pipeline, err := digest.New(digest.Options{
		Cluster:  cfg.Cluster,
		Fallback: cfg.Fallback,
		Details:  cfg.Details,
	}, log.Logger)
	if err != nil {
		return err
	}

	out, err := pipeline.Run(cmd.Context(), in)
	if err != nil {
		return err
	}

	// Encode fully before writing so a failure leaves no partial output.
	var buf bytes.Buffer
	if err := payload.Encode(&buf, outFormat, out); err != nil {
		return err
	}
	return writeOutput(cmd, buf.Bytes())
}

// loadConfig reads the config file and env, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("min-cluster-size") {
		cfg.Cluster.MinClusterSize = summarizeMinCluster
	}
	if flags.Changed("min-samples") {
		cfg.Cluster.MinSamples = summarizeMinSamples
	}
	if flags.Changed("metric") {
		cfg.Cluster.Metric = hdbscan.Metric(summarizeMetric)
	}
	if flags.Changed("selection") {
		cfg.Cluster.SelectionMethod = hdbscan.SelectionMethod(summarizeSelection)
	}
	if flags.Changed("allow-single-cluster") {
		cfg.Cluster.AllowSingleCluster = summarizeSingle
	}
	if flags.Changed("fallback") {
		cfg.Fallback = summarizeFallback
	}
	if flags.Changed("details") {
		cfg.Details = summarizeDetails
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().
		Str("config", configPath).
		Int("min_cluster_size", cfg.Cluster.MinClusterSize).
		Str("metric", string(cfg.Cluster.Metric)).
		Bool("fallback", cfg.Fallback).
		Msg("Configuration loaded")
	return cfg, nil
}

func inputFormat(cmd *cobra.Command) (payload.Format, error) {
	if cmd.Flags().Changed("format") {
		return payload.ParseFormat(summarizeFormat)
	}
	return payload.FormatFromPath(summarizeInput), nil
}

func readInput(cmd *cobra.Command, format payload.Format) (*payload.Input, error) {
	var r io.Reader = cmd.InOrStdin()
	if summarizeInput != "-" && summarizeInput != "" {
		f, err := os.Open(summarizeInput) // #nosec G304 -- user-supplied input path
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return payload.Decode(r, format)
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	if summarizeOutput == "-" || summarizeOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(summarizeOutput, data, 0600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
