package stats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"poolCore/internal/model"
	"poolCore/internal/storage/postgres"
)

// Config controls aggregation behavior. AssetA and AssetB identify the
// pool the journal belongs to and orient swap volume per asset.
type Config struct {
	AssetA        string
	AssetB        string
	WindowSeconds uint64
	BatchSize     int
	RecomputeFrom uint64
	StateStore    StateStore
}

// Aggregator folds the applied-operation journal into pool window stats.
type Aggregator struct {
	cfg     Config
	store   *postgres.Store
	logger  *zap.Logger
	current *Accumulator
}

func NewAggregator(cfg Config, store *postgres.Store, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Run executes aggregation over an applied-operations JSONL file.
func (a *Aggregator) Run(ctx context.Context, inputPath string) error {
	if a.store == nil {
		return fmt.Errorf("store is nil")
	}
	if a.cfg.WindowSeconds == 0 {
		return fmt.Errorf("window seconds must be > 0")
	}
	if a.cfg.AssetA == "" || a.cfg.AssetB == "" {
		return fmt.Errorf("asset pair is required")
	}
	if a.cfg.BatchSize <= 0 {
		a.cfg.BatchSize = 1000
	}

	startTs, err := a.loadStartTimestamp(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.PoolWindowStats, 0, a.cfg.BatchSize)
	maxTs := startTs
	var total, aggregated, skipped, failed int

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var op model.AppliedOperation
		if err := json.Unmarshal(line, &op); err != nil {
			failed++
			a.logger.Warn("decode operation", zap.Error(err))
			continue
		}

		if op.Timestamp <= startTs {
			skipped++
			continue
		}

		windowStart := windowStart(op.Timestamp, a.cfg.WindowSeconds)
		windowEnd := windowStart + a.cfg.WindowSeconds

		if a.current == nil {
			a.current = NewAccumulator(a.cfg.AssetA, a.cfg.AssetB, windowStart, windowEnd)
		} else if a.current.WindowStart != windowStart {
			batch = append(batch, a.current.Stats(a.cfg.WindowSeconds))
			aggregated++
			a.current = NewAccumulator(a.cfg.AssetA, a.cfg.AssetB, windowStart, windowEnd)
		}

		if err := a.current.AddOperation(op); err != nil {
			failed++
			a.logger.Warn("aggregate operation", zap.Error(err), zap.Uint64("seq", op.Seq), zap.String("op", op.Op))
			continue
		}

		if op.Timestamp > maxTs {
			maxTs = op.Timestamp
		}

		if len(batch) >= a.cfg.BatchSize {
			if err := a.store.UpsertWindowStats(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]

			if err := a.saveState(ctx); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if a.current != nil {
		batch = append(batch, a.current.Stats(a.cfg.WindowSeconds))
		aggregated++
		a.current = nil
	}

	if len(batch) > 0 {
		if err := a.store.UpsertWindowStats(ctx, batch); err != nil {
			return err
		}
	}

	a.cfg.RecomputeFrom = maxTs
	if err := a.saveState(ctx); err != nil {
		return err
	}

	a.logger.Info("stats complete",
		zap.Int("total", total),
		zap.Int("aggregated", aggregated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

func (a *Aggregator) loadStartTimestamp(ctx context.Context) (uint64, error) {
	if a.cfg.RecomputeFrom > 0 {
		return a.cfg.RecomputeFrom - 1, nil
	}
	if a.cfg.StateStore == nil {
		return 0, nil
	}
	last, ok, err := a.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return last, nil
}

func (a *Aggregator) saveState(ctx context.Context) error {
	if a.cfg.StateStore == nil {
		return nil
	}

	// The open window may still receive operations; checkpoint just before it.
	if a.current != nil && a.current.WindowStart > 0 {
		return a.cfg.StateStore.Save(ctx, a.current.WindowStart-1)
	}
	return a.cfg.StateStore.Save(ctx, a.cfg.RecomputeFrom)
}

func windowStart(ts uint64, windowSec uint64) uint64 {
	return ts - (ts % windowSec)
}
