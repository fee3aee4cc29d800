package reservation

import (
	"car-rental-core/internal/pkg/errs"
)

var ErrUnknownStatus = errs.Mark(errs.New("unknown reservation status"), errs.ErrValidation)

// Status is closed: only the four values below exist on the wire and in storage.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, nil
	default:
		return "", errs.Wrapf(ErrUnknownStatus, "status %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsActive reports whether the reservation occupies its vehicle's calendar.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, errs.Wrapf(ErrUnknownStatus, "status %q", string(s))
	}
	return []byte(s), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ActiveStatuses lists the statuses that take part in overlap checks.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}
