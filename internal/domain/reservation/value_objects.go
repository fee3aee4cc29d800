package reservation

import (
	"strings"
	"time"

	"car-rental-core/internal/pkg/errs"
)

const (
	DateLayout              = "2006-01-02"
	MaxPickupLocationLength = 255
)

var (
	ErrInvalidDateRange      = errs.Mark(errs.New("end date must be after start date"), errs.ErrValidation)
	ErrStartInPast           = errs.Mark(errs.New("start date cannot be in the past"), errs.ErrValidation)
	ErrEmptyPickupLocation   = errs.Mark(errs.New("pickup location is required"), errs.ErrValidation)
	ErrPickupLocationTooLong = errs.Mark(errs.New("pickup location is too long (max 255 characters)"), errs.ErrValidation)
	ErrNegativeAmount        = errs.Mark(errs.New("amount cannot be negative"), errs.ErrValidation)
)

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errs.Mark(errs.Wrapf(err, "invalid date %q", s), errs.ErrValidation)
	}
	return t, nil
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := DateOf(start), DateOf(end)
	if !e.After(s) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: s, end: e}, nil
}

// ReconstructDateRange skips validation for rows loaded from storage.
func ReconstructDateRange(start, end time.Time) DateRange {
	return DateRange{start: DateOf(start), end: DateOf(end)}
}

func (d DateRange) Start() time.Time { return d.start }
func (d DateRange) End() time.Time   { return d.end }

// Days is the number of nights between start and end.
func (d DateRange) Days() int {
	return int(d.end.Sub(d.start).Hours() / 24)
}

// Overlaps treats both ends as inclusive, so a range ending on the day
// another begins still conflicts.
func (d DateRange) Overlaps(other DateRange) bool {
	return !d.start.After(other.end) && !d.end.Before(other.start)
}

func (d DateRange) String() string {
	return d.start.Format(DateLayout) + ".." + d.end.Format(DateLayout)
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Times(n int64) Money {
	return Money{cents: m.cents * n}
}

type PickupLocation struct {
	value string
}

func NewPickupLocation(s string) (PickupLocation, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return PickupLocation{}, ErrEmptyPickupLocation
	}
	if len(v) > MaxPickupLocationLength {
		return PickupLocation{}, ErrPickupLocationTooLong
	}
	return PickupLocation{value: v}, nil
}

func (p PickupLocation) String() string {
	return p.value
}

// ReconstructPickupLocation skips validation for rows loaded from storage.
func ReconstructPickupLocation(s string) PickupLocation {
	return PickupLocation{value: s}
}
