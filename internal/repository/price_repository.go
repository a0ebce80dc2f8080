package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
)

type PriceRepository struct {
	db *sql.DB
}

func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

const snapshotColumns = `id, timestamp, price_usd, price_gbp, source`

// InsertSnapshot appends a snapshot. Rows are never updated.
func (r *PriceRepository) InsertSnapshot(ctx context.Context, s *model.PriceSnapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO gold_prices(timestamp, price_usd, price_gbp, source)
		VALUES($1, $2, $3, $4)
		RETURNING id
	`, s.Timestamp.UTC(), s.PriceUSD, s.PriceGBP, s.Source).Scan(&s.ID)
}

func (r *PriceRepository) LatestSnapshot(ctx context.Context) (*model.PriceSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM gold_prices
		ORDER BY timestamp DESC
		LIMIT 1
	`)
	return scanSnapshot(row)
}

func (r *PriceRepository) SnapshotAtOrBefore(ctx context.Context, at time.Time) (*model.PriceSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM gold_prices
		WHERE timestamp <= $1
		ORDER BY timestamp DESC
		LIMIT 1
	`, at.UTC())
	return scanSnapshot(row)
}

// SnapshotInHour returns the latest snapshot in [hourStart, hourStart+1h).
func (r *PriceRepository) SnapshotInHour(ctx context.Context, hourStart time.Time) (*model.PriceSnapshot, error) {
	start := hourStart.UTC().Truncate(time.Hour)
	row := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM gold_prices
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp DESC
		LIMIT 1
	`, start, start.Add(time.Hour))
	return scanSnapshot(row)
}

func (r *PriceRepository) SnapshotsInRange(ctx context.Context, from, to time.Time, limit int) ([]model.PriceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM gold_prices
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC
		LIMIT $3
	`, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, err
	}
	return scanSnapshots(rows)
}

// RecentSnapshots returns the newest limit snapshots in ascending order.
func (r *PriceRepository) RecentSnapshots(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+` FROM (
			SELECT `+snapshotColumns+`
			FROM gold_prices
			ORDER BY timestamp DESC
			LIMIT $1
		) recent
		ORDER BY timestamp ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanSnapshots(rows)
}

func (r *PriceRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanSnapshot(row *sql.Row) (*model.PriceSnapshot, error) {
	var s model.PriceSnapshot
	err := row.Scan(&s.ID, &s.Timestamp, &s.PriceUSD, &s.PriceGBP, &s.Source)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	s.Timestamp = s.Timestamp.UTC()
	return &s, nil
}

func scanSnapshots(rows *sql.Rows) ([]model.PriceSnapshot, error) {
	defer rows.Close()

	var snapshots []model.PriceSnapshot
	for rows.Next() {
		var s model.PriceSnapshot
		if err := rows.Scan(&s.ID, &s.Timestamp, &s.PriceUSD, &s.PriceGBP, &s.Source); err != nil {
			return nil, err
		}
		s.Timestamp = s.Timestamp.UTC()
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
