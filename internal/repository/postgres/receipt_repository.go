package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/journey-scanner/internal/domain"
	"github.com/journey-scanner/internal/domain/repository"
)

// ReceiptRepository is the Postgres-backed receipt archive. It satisfies
// repository.ReceiptRepository; EnsureSchema is extra and only the worker
// entrypoint calls it.
type ReceiptRepository struct {
	db     *DB
	logger *zap.Logger
}

var _ repository.ReceiptRepository = (*ReceiptRepository)(nil)

func NewReceiptRepository(db *DB, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the receipts table when it does not exist yet.
// Called once at worker startup.
func (r *ReceiptRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS journey_receipts (
			journey_id        TEXT PRIMARY KEY,
			title             TEXT NOT NULL DEFAULT '',
			total_fare        INTEGER NOT NULL,
			total_distance_km DOUBLE PRECISION NOT NULL,
			breakdown         JSONB NOT NULL DEFAULT '{}',
			completed_at      TIMESTAMPTZ NOT NULL
		)`

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create receipts table: %w", err)
	}
	return nil
}

// Save upserts the receipt. A journey completing twice (replayed stream
// message) simply overwrites with identical data.
func (r *ReceiptRepository) Save(ctx context.Context, receipt *domain.Receipt) error {
	breakdown, err := json.Marshal(receipt.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	const query = `
		INSERT INTO journey_receipts (journey_id, title, total_fare, total_distance_km, breakdown, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (journey_id) DO UPDATE SET
			title             = EXCLUDED.title,
			total_fare        = EXCLUDED.total_fare,
			total_distance_km = EXCLUDED.total_distance_km,
			breakdown         = EXCLUDED.breakdown,
			completed_at      = EXCLUDED.completed_at`

	_, err = r.db.ExecContext(ctx, query,
		receipt.JourneyID,
		receipt.Title,
		receipt.TotalFare,
		receipt.TotalDistanceKm,
		breakdown,
		receipt.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save receipt",
			zap.String("journey_id", receipt.JourneyID),
			zap.Error(err))
		return fmt.Errorf("failed to save receipt: %w", err)
	}

	r.logger.Debug("Receipt saved", zap.String("journey_id", receipt.JourneyID))
	return nil
}

func (r *ReceiptRepository) GetByJourneyID(ctx context.Context, journeyID string) (*domain.Receipt, error) {
	const query = `
		SELECT journey_id, title, total_fare, total_distance_km, breakdown, completed_at
		FROM journey_receipts
		WHERE journey_id = $1`

	var row struct {
		domain.Receipt
		BreakdownRaw []byte `db:"breakdown"`
	}

	if err := r.db.GetContext(ctx, &row, query, journeyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	receipt := row.Receipt
	if len(row.BreakdownRaw) > 0 {
		if err := json.Unmarshal(row.BreakdownRaw, &receipt.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
	}
	return &receipt, nil
}
