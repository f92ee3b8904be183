package repository

import (
	"context"
	"time"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	dbtx db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{dbtx: dbtx}
}

var _ shared.IdempotencyRepository = (*IdempotencyRepository)(nil)

// TryInsert claims the key for this request. An existing live record wins
// silently; the caller reads it back with Get to decide between replay,
// rejection, and proceeding. Expired records are reclaimed in place.
func (r *IdempotencyRepository) TryInsert(
	ctx context.Context,
	key, userID uuid.UUID,
	endpoint, requestHash string,
	expiresAt time.Time,
) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
		    request_hash = EXCLUDED.request_hash,
		    status = 'processing',
		    result_booking_id = NULL,
		    expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at <= now()`,
		key, userID, endpoint, requestHash, expiresAt,
	)
	if err != nil {
		return infra.WrapQueryErr("failed to claim idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := r.dbtx.QueryRow(ctx, `
		SELECT key, user_id, endpoint, request_hash, status, result_booking_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`,
		key, userID,
	).Scan(&rec.Key, &rec.UserID, &rec.Endpoint, &rec.RequestHash, &rec.Status, &rec.ResultBookingID, &rec.ExpiresAt)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to load idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key, userID, resultBookingID uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', result_booking_id = $3
		WHERE key = $1 AND user_id = $2`,
		key, userID, resultBookingID,
	)
	if err != nil {
		return infra.WrapQueryErr("failed to mark idempotency key completed", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", nil)
	}
	return nil
}
