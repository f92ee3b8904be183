package request

import (
	"time"

	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
)

// Dates come in as plain YYYY-MM-DD strings; the end date is exclusive, so a
// checkout day can be another booking's check-in day.
type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
}

func (r *CreateBookingRequest) ToParams() (commands.CreateBookingParams, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return commands.CreateBookingParams{}, err
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return commands.CreateBookingParams{}, err
	}
	return commands.CreateBookingParams{
		ListingID: r.ListingID,
		Start:     start,
		End:       end,
	}, nil
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
