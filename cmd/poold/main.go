package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poold",
		Short:        "Constant-product liquidity pool engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay operation requests through the pool engine",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("asset-a", "", "first pooled asset address")
	replayCmd.Flags().String("asset-b", "", "second pooled asset address")
	replayCmd.Flags().String("in", "", "input operation requests JSONL")
	replayCmd.Flags().String("out", "./data/operations.jsonl", "applied operations JSONL path")
	replayCmd.Flags().String("errors", "./data/operation_errors.jsonl", "rejected operations JSONL path")
	replayCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the operation journal")
	replayCmd.Flags().Int("batch-size", 100, "operations per journal batch")
	replayCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	replayCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate the applied-operation journal into window stats",
		RunE:  runStats,
	}

	statsCmd.Flags().String("asset-a", "", "first pooled asset address")
	statsCmd.Flags().String("asset-b", "", "second pooled asset address")
	statsCmd.Flags().String("in", "", "input applied operations JSONL")
	statsCmd.Flags().String("window", "5m", "aggregation window (e.g. 1m, 5m, 1h)")
	statsCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	statsCmd.Flags().Int("batch-size", 1000, "batch size for DB writes")
	statsCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	statsCmd.Flags().String("recompute-from", "", "recompute from timestamp (unix seconds or RFC3339)")
	statsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(statsCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap output for given reserves",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("amount-in", "", "input amount")
	quoteCmd.Flags().String("reserve-in", "", "reserve of the input asset")
	quoteCmd.Flags().String("reserve-out", "", "reserve of the output asset")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
