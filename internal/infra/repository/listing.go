package repository

import (
	"context"
	"time"

	"stayhub/internal/domain/listing"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

const listingColumns = `id, host_id, name, requires_host_approval, has_date_range,
       has_security_deposit, nightly_rate_cents, security_deposit_cents, currency,
       created_at, updated_at`

type ListingRepository struct {
	dbtx db.DBTX
}

func NewListingRepository(dbtx db.DBTX) *ListingRepository {
	return &ListingRepository{dbtx: dbtx}
}

var _ shared.ListingRepository = (*ListingRepository)(nil)

func (r *ListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return r.scanOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
}

// FindByIDForUpdate locks the listing row until the transaction ends. Every
// write that checks the listing's calendar goes through this lock, so
// check-then-write sequences for one listing serialize.
func (r *ListingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return r.scanOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, id)
}

func (r *ListingRepository) scanOne(ctx context.Context, query string, id uuid.UUID) (*listing.Listing, error) {
	var (
		listingID            uuid.UUID
		hostID               uuid.UUID
		name                 string
		requiresHostApproval bool
		hasDateRange         bool
		hasSecurityDeposit   bool
		nightlyRateCents     int64
		securityDepositCents int64
		currency             string
		createdAt            time.Time
		updatedAt            time.Time
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&listingID, &hostID, &name, &requiresHostApproval, &hasDateRange,
		&hasSecurityDeposit, &nightlyRateCents, &securityDepositCents, &currency,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapQueryErr("failed to find listing", err)
	}
	return listing.ReconstructListing(
		listingID, hostID, name,
		requiresHostApproval, hasDateRange, hasSecurityDeposit,
		nightlyRateCents, securityDepositCents, currency,
		createdAt, updatedAt,
	), nil
}
