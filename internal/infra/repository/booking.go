package repository

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

const bookingColumns = `id, listing_id, renter_id, host_id, start_date, end_date,
       status, total_cents, currency, created_at, updated_at`

type BookingRepository struct {
	dbtx db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{dbtx: dbtx}
}

var _ shared.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO bookings (id, listing_id, renter_id, host_id, start_date, end_date,
		                      status, total_cents, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID(), b.ListingID(), b.RenterID(), b.HostID(),
		b.DateRange().Start(), b.DateRange().End(),
		b.Status().String(), b.Total().Cents(), b.Total().Currency(),
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapQueryErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.scanOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.scanOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, updatedAt time.Time) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status.String(), updatedAt,
	)
	if err != nil {
		return infra.WrapQueryErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found for status update", nil)
	}
	return nil
}

func (r *BookingRepository) CommittedRanges(
	ctx context.Context,
	listingID uuid.UUID,
	statuses []booking.Status,
	exclude uuid.UUID,
) ([]booking.DateRange, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	rows, err := r.dbtx.Query(ctx, `
		SELECT start_date, end_date FROM bookings
		WHERE listing_id = $1 AND status = ANY($2) AND id <> $3
		ORDER BY start_date`,
		listingID, names, exclude,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to load booked ranges", err)
	}
	defer rows.Close()

	var ranges []booking.DateRange
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapQueryErr("failed to scan booked range", err)
		}
		ranges = append(ranges, booking.ReconstructDateRange(start, end))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapQueryErr("failed to iterate booked ranges", err)
	}
	return ranges, nil
}

func (r *BookingRepository) CompleteElapsed(ctx context.Context, now time.Time) ([]shared.CompletedBooking, error) {
	rows, err := r.dbtx.Query(ctx, `
		UPDATE bookings SET status = 'completed', updated_at = $1
		WHERE status = 'confirmed' AND end_date <= $1
		RETURNING id, listing_id`,
		now,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to complete elapsed bookings", err)
	}
	defer rows.Close()

	var done []shared.CompletedBooking
	for rows.Next() {
		var cb shared.CompletedBooking
		if err := rows.Scan(&cb.ID, &cb.ListingID); err != nil {
			return nil, infra.WrapQueryErr("failed to scan completed booking", err)
		}
		done = append(done, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapQueryErr("failed to iterate completed bookings", err)
	}
	return done, nil
}

func (r *BookingRepository) scanOne(ctx context.Context, query string, id uuid.UUID) (*booking.Booking, error) {
	var (
		bookingID  uuid.UUID
		listingID  uuid.UUID
		renterID   uuid.UUID
		hostID     uuid.UUID
		start      time.Time
		end        time.Time
		status     string
		totalCents int64
		currency   string
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&bookingID, &listingID, &renterID, &hostID, &start, &end,
		&status, &totalCents, &currency, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to find booking", err)
	}
	return booking.ReconstructBooking(
		bookingID, listingID, renterID, hostID,
		booking.ReconstructDateRange(start, end),
		booking.Status(status),
		booking.ReconstructMoney(totalCents, currency),
		createdAt, updatedAt,
	), nil
}
