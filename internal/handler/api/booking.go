package api

import (
	"errors"
	"net/http"

	"stayhub/internal/domain/booking"
	reqdto "stayhub/internal/handler/dto/request"
	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/httperr"
	"stayhub/internal/handler/middleware"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}
	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must be YYYY-MM-DD", nil)
		return
	}

	view, err := h.bookingCommands.CreateBooking(c.Request.Context(), params, userID, idempotencyKey)
	if err != nil {
		abortBookingErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		abortBookingErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	items, err := h.bookingQueries.ListByRenter(c.Request.Context(), userID)
	if err != nil {
		abortBookingErr(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(items))
}

func (h *BookingHandler) GetHostBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	items, err := h.bookingQueries.ListByHost(c.Request.Context(), userID)
	if err != nil {
		abortBookingErr(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(items))
}

func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.UpdateBookingStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.bookingCommands.Transition(c.Request.Context(), id, booking.Status(req.Status), userID)
	if err != nil {
		abortBookingErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// GetBookedDates serves the public calendar: occupied ranges only, no renter
// or pricing data.
func (h *BookingHandler) GetBookedDates(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid listing ID format", nil)
		return
	}

	ranges, err := h.bookingQueries.BookedDates(c.Request.Context(), listingID)
	if err != nil {
		abortBookingErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookedRanges(listingID, ranges))
}

func toListResponse(items []*queries.BookingListItem) []*resdto.BookingListResponse {
	out := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		out[i] = resdto.FromBookingListItem(item)
	}
	return out
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}

func abortBookingErr(c *gin.Context, err error) {
	var conflict *commands.SlotConflictError

	switch {
	case errors.Is(err, errs.ErrInvalidRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
	case errors.Is(err, errs.ErrListingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.As(err, &conflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are unavailable", gin.H{
			"listing_id":  conflict.ListingID,
			"requested":   conflict.Requested.String(),
			"conflicting": conflict.Conflicting.String(),
		})
	case errors.Is(err, errs.ErrSlotUnavailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are unavailable", nil)
	case errors.Is(err, errs.ErrDuplicateRequest):
		httperr.AbortWithError(c, http.StatusConflict, err, "Duplicate booking request with different parameters", nil)
	case errors.Is(err, errs.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed to act on this booking", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Status transition not allowed", nil)
	case errors.Is(err, errs.ErrCancelCutoffPassed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cancellation window has passed", nil)
	case errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking request failed validation", nil)
	case errors.Is(err, errs.ErrOperationTimeout):
		httperr.AbortWithError(c, http.StatusGatewayTimeout, err, "Operation timed out", nil)
	case errors.Is(err, errs.ErrStoreUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Storage temporarily unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
