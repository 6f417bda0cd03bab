package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolCore/internal/model"
	"poolCore/internal/pool"
	"poolCore/internal/storage"
	"poolCore/internal/storage/postgres"
	"poolCore/internal/transfer"
)

// RunConfig holds runtime settings for the replay runner.
type RunConfig struct {
	In                string
	Out               string
	Errors            string
	CheckpointPath    string
	CheckpointEnabled bool
	JournalBatchSize  int
}

// Runner streams operation requests from a JSONL file through the pool
// engine and writes applied records to storage.
type Runner struct {
	cfg        RunConfig
	pool       *pool.Pool
	bank       *transfer.Bank
	storage    storage.Storage
	journal    *postgres.Store
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies. journal may be nil when
// no Postgres store is configured.
func NewRunner(cfg RunConfig, enginePool *pool.Pool, bank *transfer.Bank, storageSink storage.Storage, journal *postgres.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.JournalBatchSize <= 0 {
		cfg.JournalBatchSize = 100
	}
	return &Runner{
		cfg:        cfg,
		pool:       enginePool,
		bank:       bank,
		storage:    storageSink,
		journal:    journal,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the replay loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("pool is nil")
	}
	if r.bank == nil {
		return fmt.Errorf("bank is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}

	var lastApplied uint64
	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load()
		if err != nil {
			return err
		}
		if ok {
			lastApplied = cp.LastAppliedSeq
			r.logger.Info("resume from checkpoint", zap.Uint64("last_applied_seq", lastApplied))
		}
	}

	inputFile, err := os.Open(r.cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	errWriter, err := newErrorWriter(r.cfg.Errors)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.AppliedOperation, 0, r.cfg.JournalBatchSize)
	var total, applied, skipped, failed int

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var request model.OperationRequest
		if err := json.Unmarshal(line, &request); err != nil {
			failed++
			errWriter.write(model.OperationError{Error: err.Error()})
			continue
		}

		if request.Seq != 0 && request.Seq <= lastApplied {
			skipped++
			continue
		}

		record, err := r.apply(ctx, request)
		if err != nil {
			failed++
			errWriter.write(model.OperationError{
				Seq:    request.Seq,
				Op:     request.Op,
				Caller: request.Caller,
				Error:  err.Error(),
			})
			continue
		}

		applied++
		if request.Seq > lastApplied {
			lastApplied = request.Seq
		}
		batch = append(batch, record)

		if len(batch) >= r.cfg.JournalBatchSize {
			if err := r.flush(ctx, batch, lastApplied); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if len(batch) > 0 {
		if err := r.flush(ctx, batch, lastApplied); err != nil {
			return err
		}
	}

	r.logger.Info("replay complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

func (r *Runner) apply(ctx context.Context, request model.OperationRequest) (model.AppliedOperation, error) {
	caller, err := parseAddress(request.Caller)
	if err != nil {
		return model.AppliedOperation{}, fmt.Errorf("caller: %w", err)
	}

	recipient := caller
	if request.Recipient != "" {
		recipient, err = parseAddress(request.Recipient)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("recipient: %w", err)
		}
	}

	record := model.AppliedOperation{
		Seq:       request.Seq,
		Op:        request.Op,
		Caller:    request.Caller,
		Recipient: recipient.Hex(),
		Asset:     request.Asset,
		Timestamp: request.Timestamp,
		AppliedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	switch request.Op {
	case model.OpFund:
		asset, err := parseAddress(request.Asset)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("asset: %w", err)
		}
		amount, err := parseAmount(request.Amount)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("amount: %w", err)
		}
		if err := r.bank.Fund(asset, caller, amount); err != nil {
			return model.AppliedOperation{}, err
		}
		record.Amount = amount.String()

	case model.OpMint:
		amountA, err := parseAmount(request.AmountA)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("amount_a: %w", err)
		}
		amountB, err := parseAmount(request.AmountB)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("amount_b: %w", err)
		}
		issued, err := r.pool.Mint(ctx, caller, amountA, amountB, recipient)
		if err != nil {
			return model.AppliedOperation{}, err
		}
		record.AmountA = amountA.String()
		record.AmountB = amountB.String()
		record.Shares = issued.String()

	case model.OpBurn:
		shares, err := parseAmount(request.Shares)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("shares: %w", err)
		}
		amountA, amountB, err := r.pool.Burn(ctx, caller, shares, recipient)
		if err != nil {
			return model.AppliedOperation{}, err
		}
		record.Shares = shares.String()
		record.AmountA = amountA.String()
		record.AmountB = amountB.String()

	case model.OpSwap:
		tokenIn, err := parseAddress(request.Asset)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("asset: %w", err)
		}
		amountIn, err := parseAmount(request.AmountIn)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("amount_in: %w", err)
		}
		minAmountOut, err := parseOptionalAmount(request.MinAmountOut)
		if err != nil {
			return model.AppliedOperation{}, fmt.Errorf("min_amount_out: %w", err)
		}
		amountOut, err := r.pool.Swap(ctx, caller, amountIn, tokenIn, minAmountOut, recipient)
		if err != nil {
			return model.AppliedOperation{}, err
		}
		record.AmountIn = amountIn.String()
		record.AmountOut = amountOut.String()

	default:
		return model.AppliedOperation{}, fmt.Errorf("unknown op: %q", request.Op)
	}

	reserveA, reserveB := r.pool.GetReserves()
	record.ReserveA = reserveA.String()
	record.ReserveB = reserveB.String()
	record.TotalShares = r.pool.TotalShares().String()

	return record, nil
}

func (r *Runner) flush(ctx context.Context, batch []model.AppliedOperation, lastApplied uint64) error {
	if err := r.storage.PutOperationBatch(batch); err != nil {
		return fmt.Errorf("write operations: %w", err)
	}

	if r.journal != nil {
		if err := r.journal.InsertOperations(ctx, batch); err != nil {
			return fmt.Errorf("journal operations: %w", err)
		}
		assetA, assetB := r.pool.Assets()
		reserveA, reserveB := r.pool.GetReserves()
		snapshot := model.PoolSnapshot{
			AssetA:      assetA.Hex(),
			AssetB:      assetB.Hex(),
			ReserveA:    reserveA.String(),
			ReserveB:    reserveB.String(),
			TotalShares: r.pool.TotalShares().String(),
			LastSeq:     lastApplied,
		}
		if err := r.journal.UpsertSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("journal snapshot: %w", err)
		}
	}

	if r.checkpoint != nil {
		if err := r.checkpoint.Save(lastApplied); err != nil {
			return err
		}
	}
	return nil
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address: %q", value)
	}
	return common.HexToAddress(value), nil
}

func parseAmount(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", value)
	}
	return parsed, nil
}

func parseOptionalAmount(value string) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	return parseAmount(value)
}

type errorWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newErrorWriter(path string) (*errorWriter, error) {
	if path == "" {
		return &errorWriter{}, nil
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create errors dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open errors file: %w", err)
	}
	return &errorWriter{file: file, writer: bufio.NewWriter(file)}, nil
}

func (w *errorWriter) write(record model.OperationError) {
	if w == nil || w.writer == nil {
		return
	}
	line, err := json.Marshal(record)
	if err != nil {
		return
	}
	w.writer.Write(line)
	w.writer.WriteByte('\n')
}

func (w *errorWriter) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
