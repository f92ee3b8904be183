package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyRange      = errors.New("start date must be before end date")
	ErrRangeInPast     = errors.New("date range starts in the past")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrCurrencyMissing = errors.New("currency is required")
)

// DateRange is a half-open interval [start, end) at date granularity.
// The half-open convention lets a checkout day double as the next
// booking's check-in day.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if !s.Before(e) {
		return DateRange{}, ErrEmptyRange
	}
	return DateRange{start: s, end: e}, nil
}

// ReconstructDateRange rehydrates a range already validated at creation time.
func ReconstructDateRange(start, end time.Time) DateRange {
	return DateRange{start: truncateToDate(start), end: truncateToDate(end)}
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (r DateRange) Start() time.Time {
	return r.start
}

func (r DateRange) End() time.Time {
	return r.end
}

func (r DateRange) Nights() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

// Overlaps applies the half-open overlap rule: touching ranges do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

func (r DateRange) ValidateNotPast(now time.Time) error {
	if r.start.Before(truncateToDate(now)) {
		return ErrRangeInPast
	}
	return nil
}

func (r DateRange) HasStarted(now time.Time) bool {
	return !now.Before(r.start)
}

func (r DateRange) HasEnded(now time.Time) bool {
	return !now.Before(r.end)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.start.Format(time.DateOnly), r.end.Format(time.DateOnly))
}

// MarshalJSON keeps event payloads readable despite unexported fields.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: r.start.Format(time.DateOnly),
		End:   r.end.Format(time.DateOnly),
	})
}

type Money struct {
	cents    int64
	currency string
}

func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	if currency == "" {
		return Money{}, ErrCurrencyMissing
	}
	return Money{cents: cents, currency: currency}, nil
}

// ReconstructMoney rehydrates an amount already validated at creation time.
func ReconstructMoney(cents int64, currency string) Money {
	return Money{cents: cents, currency: currency}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents, currency: m.currency}
}
