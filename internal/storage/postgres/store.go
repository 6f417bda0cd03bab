package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolCore/internal/model"
)

// Store provides Postgres persistence for the operation journal and stats.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertSnapshot inserts or updates the pool state snapshot.
func (s *Store) UpsertSnapshot(ctx context.Context, snapshot model.PoolSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_snapshots (
			asset_a, asset_b, reserve_a, reserve_b, total_shares, last_seq, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (asset_a, asset_b)
		DO UPDATE SET
			reserve_a = EXCLUDED.reserve_a,
			reserve_b = EXCLUDED.reserve_b,
			total_shares = EXCLUDED.total_shares,
			last_seq = GREATEST(pool_snapshots.last_seq, EXCLUDED.last_seq),
			updated_at = now()
	`,
		snapshot.AssetA,
		snapshot.AssetB,
		snapshot.ReserveA,
		snapshot.ReserveB,
		snapshot.TotalShares,
		int64(snapshot.LastSeq),
	)
	return err
}

// InsertOperations appends applied operations to the journal. Replayed
// sequence numbers are ignored so reruns stay idempotent.
func (s *Store) InsertOperations(ctx context.Context, ops []model.AppliedOperation) error {
	if len(ops) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, op := range ops {
		batch.Queue(`
			INSERT INTO pool_operations (
				seq, op, caller, recipient, asset, amount_a, amount_b, shares,
				amount_in, amount_out, reserve_a, reserve_b, total_shares, ts, applied_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			ON CONFLICT (seq) DO NOTHING
		`,
			int64(op.Seq),
			op.Op,
			op.Caller,
			op.Recipient,
			op.Asset,
			op.AmountA,
			op.AmountB,
			op.Shares,
			op.AmountIn,
			op.AmountOut,
			op.ReserveA,
			op.ReserveB,
			op.TotalShares,
			int64(op.Timestamp),
			op.AppliedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range ops {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertWindowStats inserts or updates window stats rows.
func (s *Store) UpsertWindowStats(ctx context.Context, stats []model.PoolWindowStats) error {
	if len(stats) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range stats {
		batch.Queue(`
			INSERT INTO pool_window_stats (
				asset_a, asset_b, window_size_seconds, window_start_ts, window_end_ts,
				swap_count, mint_count, burn_count, volume_a, volume_b, fee_a, fee_b,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
			ON CONFLICT (asset_a, asset_b, window_size_seconds, window_start_ts)
			DO UPDATE SET
				window_end_ts = EXCLUDED.window_end_ts,
				swap_count = EXCLUDED.swap_count,
				mint_count = EXCLUDED.mint_count,
				burn_count = EXCLUDED.burn_count,
				volume_a = EXCLUDED.volume_a,
				volume_b = EXCLUDED.volume_b,
				fee_a = EXCLUDED.fee_a,
				fee_b = EXCLUDED.fee_b,
				updated_at = now()
		`,
			row.AssetA,
			row.AssetB,
			row.WindowSizeSecs,
			row.WindowStart,
			row.WindowEnd,
			int64(row.SwapCount),
			int64(row.MintCount),
			int64(row.BurnCount),
			row.VolumeA,
			row.VolumeB,
			row.FeeA,
			row.FeeB,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range stats {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM pool_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, ts)
	return err
}
