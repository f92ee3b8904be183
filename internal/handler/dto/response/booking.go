package response

import (
	"time"

	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	RenterID    uuid.UUID `json:"renter_id"`
	HostID      uuid.UUID `json:"host_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:          view.ID,
		ListingID:   view.ListingID,
		ListingName: view.ListingName,
		RenterID:    view.RenterID,
		HostID:      view.HostID,
		StartDate:   view.StartDate.Format(time.DateOnly),
		EndDate:     view.EndDate.Format(time.DateOnly),
		Status:      view.Status,
		TotalCents:  view.TotalCents,
		Currency:    view.Currency,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
}

type BookingListResponse struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"total_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:          item.ID,
		ListingID:   item.ListingID,
		ListingName: item.ListingName,
		StartDate:   item.StartDate.Format(time.DateOnly),
		EndDate:     item.EndDate.Format(time.DateOnly),
		Status:      item.Status,
		TotalCents:  item.TotalCents,
		Currency:    item.Currency,
		CreatedAt:   item.CreatedAt,
	}
}

type BookedRangeResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type BookedDatesResponse struct {
	ListingID uuid.UUID             `json:"listing_id"`
	Ranges    []BookedRangeResponse `json:"ranges"`
}

func FromBookedRanges(listingID uuid.UUID, ranges []queries.BookedRange) *BookedDatesResponse {
	out := make([]BookedRangeResponse, len(ranges))
	for i, r := range ranges {
		out[i] = BookedRangeResponse{
			StartDate: r.Start.Format(time.DateOnly),
			EndDate:   r.End.Format(time.DateOnly),
		}
	}
	return &BookedDatesResponse{ListingID: listingID, Ranges: out}
}
