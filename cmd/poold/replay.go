package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolCore/internal/config"
	"poolCore/internal/pool"
	"poolCore/internal/replay"
	"poolCore/internal/storage"
	"poolCore/internal/storage/postgres"
	"poolCore/internal/transfer"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	assetA, err := parseAssetFlag("asset-a", cfg.AssetA)
	if err != nil {
		return err
	}
	assetB, err := parseAssetFlag("asset-b", cfg.AssetB)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank := transfer.NewBank()
	enginePool, err := pool.New(assetA, assetB, bank, logger)
	if err != nil {
		return err
	}

	var journal *postgres.Store
	if cfg.PGDSN != "" {
		journal, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer journal.Close()
	}

	storageSink := storage.NewJsonlStorage(cfg.Out)

	runner := replay.NewRunner(replay.RunConfig{
		In:                cfg.In,
		Out:               cfg.Out,
		Errors:            cfg.Errors,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		JournalBatchSize:  cfg.BatchSize,
	}, enginePool, bank, storageSink, journal, logger)

	logger.Info("replay start",
		zap.String("asset_a", assetA.Hex()),
		zap.String("asset_b", assetB.Hex()),
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.Bool("journal", journal != nil),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	return runner.Run(ctx)
}

func parseAssetFlag(name, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", name, value)
	}
	return common.HexToAddress(value), nil
}
