//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/handler/api"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"
	"stayhub/tests/common/builder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// The suite drives the real command/query stack over the in-memory store, so
// the assertions cover status mapping end to end rather than handler wiring
// alone.
type BookingHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	store   *memory.Store
	clk     *clock.MockClock
	listing *builder.ListingBuilder
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.clk = clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = memory.NewStore()
	s.listing = builder.NewListingBuilder()
	s.store.SeedListing(s.listing.BuildDomain())

	bookingQueries := queries.NewBookingQueries(memory.NewBookingReadStore(s.store, s.clk))
	bookingCommands := commands.NewBookingCommands(
		memory.NewUoW(s.store),
		bookingQueries,
		&booking.Services{Clock: s.clk, Quoter: booking.NewNightlyPriceQuoter()},
		memory.NewCapturePublisher(),
		commands.NopDeduper{},
		s.clk,
		config.NewTestConfig(),
	)
	handler := api.NewBookingHandler(bookingCommands, bookingQueries)

	// Stand-in for the JWT middleware: the bearer token is the actor id.
	authMiddleware := func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if len(raw) < 8 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		actorID, err := uuid.Parse(raw[len("Bearer "):])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", actorID)
		c.Next()
	}

	s.router.POST("/api/bookings", authMiddleware, handler.CreateBooking)
	s.router.GET("/api/bookings/my-bookings", authMiddleware, handler.GetMyBookings)
	s.router.GET("/api/bookings/host-bookings", authMiddleware, handler.GetHostBookings)
	s.router.GET("/api/bookings/:id", authMiddleware, handler.GetBooking)
	s.router.PUT("/api/bookings/:id/status", authMiddleware, handler.UpdateBookingStatus)
	s.router.GET("/api/bookings/listing/:listingId/dates", handler.GetBookedDates)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) request(method, path string, actorID uuid.UUID, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+actorID.String())
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *BookingHandlerTestSuite) createBooking(renterID uuid.UUID) uuid.UUID {
	rec := s.request(http.MethodPost, "/api/bookings", renterID, gin.H{
		"listing_id": s.listing.ID,
		"start_date": "2026-02-10",
		"end_date":   "2026-02-13",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	rec := s.request(http.MethodPost, "/api/bookings", uuid.New(), gin.H{
		"listing_id": s.listing.ID,
		"start_date": "2026-02-10",
		"end_date":   "2026-02-13",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})

	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), `"status":"pending"`)
	s.Contains(rec.Body.String(), `"start_date":"2026-02-10"`)
}

func (s *BookingHandlerTestSuite) TestCreateBooking_MissingIdempotencyKey() {
	rec := s.request(http.MethodPost, "/api/bookings", uuid.New(), gin.H{
		"listing_id": s.listing.ID,
		"start_date": "2026-02-10",
		"end_date":   "2026-02-13",
	}, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *BookingHandlerTestSuite) TestCreateBooking_MalformedDates() {
	rec := s.request(http.MethodPost, "/api/bookings", uuid.New(), gin.H{
		"listing_id": s.listing.ID,
		"start_date": "Feb 10 2026",
		"end_date":   "2026-02-13",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *BookingHandlerTestSuite) TestCreateBooking_Unauthorized() {
	rec := s.request(http.MethodPost, "/api/bookings", uuid.Nil, gin.H{}, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *BookingHandlerTestSuite) TestCreateBooking_Conflict() {
	s.createBooking(uuid.New())

	rec := s.request(http.MethodPost, "/api/bookings", uuid.New(), gin.H{
		"listing_id": s.listing.ID,
		"start_date": "2026-02-12",
		"end_date":   "2026-02-15",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "conflicting")
}

func (s *BookingHandlerTestSuite) TestCreateBooking_UnknownListing() {
	rec := s.request(http.MethodPost, "/api/bookings", uuid.New(), gin.H{
		"listing_id": uuid.New(),
		"start_date": "2026-02-10",
		"end_date":   "2026-02-13",
	}, map[string]string{"Idempotency-Key": uuid.NewString()})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *BookingHandlerTestSuite) TestGetBooking_Scoping() {
	renterID := uuid.New()
	id := s.createBooking(renterID)

	s.Equal(http.StatusOK, s.request(http.MethodGet, "/api/bookings/"+id.String(), renterID, nil, nil).Code)
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/api/bookings/"+id.String(), s.listing.HostID, nil, nil).Code)
	s.Equal(http.StatusForbidden, s.request(http.MethodGet, "/api/bookings/"+id.String(), uuid.New(), nil, nil).Code)
	s.Equal(http.StatusBadRequest, s.request(http.MethodGet, "/api/bookings/not-a-uuid", renterID, nil, nil).Code)
}

func (s *BookingHandlerTestSuite) TestUpdateStatus() {
	renterID := uuid.New()
	id := s.createBooking(renterID)
	path := "/api/bookings/" + id.String() + "/status"

	// stranger
	rec := s.request(http.MethodPut, path, uuid.New(), gin.H{"status": "confirmed"}, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	// renter cannot confirm
	rec = s.request(http.MethodPut, path, renterID, gin.H{"status": "confirmed"}, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	// host confirms
	rec = s.request(http.MethodPut, path, s.listing.HostID, gin.H{"status": "confirmed"}, nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), `"status":"confirmed"`)

	// confirming again is no legal edge
	rec = s.request(http.MethodPut, path, s.listing.HostID, gin.H{"status": "confirmed"}, nil)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	renterID := uuid.New()
	s.createBooking(renterID)

	rec := s.request(http.MethodGet, "/api/bookings/my-bookings", renterID, nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), s.listing.Name)

	rec = s.request(http.MethodGet, "/api/bookings/host-bookings", s.listing.HostID, nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), s.listing.Name)

	rec = s.request(http.MethodGet, "/api/bookings/my-bookings", uuid.New(), nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("[]", rec.Body.String())
}

func (s *BookingHandlerTestSuite) TestBookedDates_Public() {
	s.createBooking(uuid.New())

	rec := s.request(http.MethodGet, "/api/bookings/listing/"+s.listing.ID.String()+"/dates", uuid.Nil, nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"start_date":"2026-02-10"`)
	// no renter identity or pricing on the public calendar
	s.NotContains(rec.Body.String(), "renter_id")
	s.NotContains(rec.Body.String(), "total_cents")
}
