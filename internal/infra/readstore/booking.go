package readstore

import (
	"context"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

// effectiveStatus derives completion lazily: a confirmed booking whose range
// has ended reads as completed even before the sweep persists it.
const effectiveStatus = `
	CASE WHEN b.status = 'confirmed' AND b.end_date <= now()
	     THEN 'completed' ELSE b.status END`

type BookingReadStore struct {
	dbtx db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{dbtx: dbtx}
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	err := s.dbtx.QueryRow(ctx, `
		SELECT b.id, b.listing_id, l.name, b.renter_id, b.host_id,
		       b.start_date, b.end_date, `+effectiveStatus+`,
		       b.total_cents, b.currency, b.created_at, b.updated_at
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE b.id = $1`,
		id,
	).Scan(
		&view.ID, &view.ListingID, &view.ListingName, &view.RenterID, &view.HostID,
		&view.StartDate, &view.EndDate, &view.Status,
		&view.TotalCents, &view.Currency, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to find booking view", err)
	}
	return &view, nil
}

func (s *BookingReadStore) FindByRenterID(ctx context.Context, renterID uuid.UUID) ([]*queries.BookingListItem, error) {
	return s.list(ctx, `b.renter_id = $1`, renterID)
}

func (s *BookingReadStore) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*queries.BookingListItem, error) {
	return s.list(ctx, `b.host_id = $1`, hostID)
}

func (s *BookingReadStore) list(ctx context.Context, where string, arg any) ([]*queries.BookingListItem, error) {
	rows, err := s.dbtx.Query(ctx, `
		SELECT b.id, b.listing_id, l.name, b.start_date, b.end_date, `+effectiveStatus+`,
		       b.total_cents, b.currency, b.created_at
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE `+where+`
		ORDER BY b.created_at DESC`,
		arg,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.ListingID, &item.ListingName,
			&item.StartDate, &item.EndDate, &item.Status,
			&item.TotalCents, &item.Currency, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapQueryErr("failed to scan booking list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapQueryErr("failed to iterate bookings", err)
	}
	return items, nil
}

// FindCommittedRanges returns the upcoming ranges that block the listing's
// calendar. Elapsed ranges are history, not availability, so they are
// filtered out.
func (s *BookingReadStore) FindCommittedRanges(ctx context.Context, listingID uuid.UUID) ([]queries.BookedRange, error) {
	rows, err := s.dbtx.Query(ctx, `
		SELECT b.start_date, b.end_date
		FROM bookings b
		WHERE b.listing_id = $1
		  AND b.status IN ('pending', 'confirmed')
		  AND b.end_date > now()
		ORDER BY b.start_date`,
		listingID,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to load booked dates", err)
	}
	defer rows.Close()

	var ranges []queries.BookedRange
	for rows.Next() {
		var r queries.BookedRange
		if err := rows.Scan(&r.Start, &r.End); err != nil {
			return nil, infra.WrapQueryErr("failed to scan booked date range", err)
		}
		ranges = append(ranges, r)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapQueryErr("failed to iterate booked dates", err)
	}
	return ranges, nil
}
