package invitation

import "time"

// Status is derived from the timestamps and the active flag; it is never stored.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
	StatusInactive Status = "inactive"
)

var statusLabels = map[Status]string{
	StatusPending:  "Pending",
	StatusAccepted: "Accepted",
	StatusExpired:  "Expired",
	StatusInactive: "Deactivated",
}

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusExpired, StatusInactive}
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Invitation grants one email address the right to create customer portal credentials.
type Invitation struct {
	ID         string
	CompanyID  string
	CustomerID *string
	Email      string
	Token      string
	CreatedBy  *string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsExpired is true from the expiry instant onwards.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsValid reports whether the token may still be used.
func (i *Invitation) IsValid(now time.Time) bool {
	return i.Active && i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

// Status partitions invitations the same way the statistics query does.
func (i *Invitation) Status(now time.Time) Status {
	switch {
	case i.IsAccepted():
		return StatusAccepted
	case i.IsExpired(now):
		return StatusExpired
	case !i.Active:
		return StatusInactive
	default:
		return StatusPending
	}
}

// CheckUsable returns the first reason the invitation cannot be accepted, in the
// order already used, inactive, expired.
func (i *Invitation) CheckUsable(now time.Time) error {
	switch {
	case i.IsAccepted():
		return ErrInvitationAlreadyUsed
	case !i.Active:
		return ErrInvitationInactive
	case i.IsExpired(now):
		return ErrInvitationExpired
	}
	return nil
}

// ExtendedExpiry pushes the expiry forward by days, counting from now when it already lapsed.
func (i *Invitation) ExtendedExpiry(now time.Time, days int) time.Time {
	base := i.ExpiresAt
	if base.Before(now) {
		base = now
	}
	return base.AddDate(0, 0, days)
}

// Statistics are raw counts for one tenant, optionally one customer.
type Statistics struct {
	Total            int64
	Pending          int64
	Accepted         int64
	Expired          int64
	Inactive         int64
	CreatedToday     int64
	CreatedThisWeek  int64
	CreatedThisMonth int64
	ExpiringSoon     int64
}

// StatisticsWindow carries the instants the statistics query compares against.
type StatisticsWindow struct {
	Now           time.Time
	DayStart      time.Time
	WeekStart     time.Time
	MonthStart    time.Time
	ExpiringUntil time.Time
}

// NewStatisticsWindow computes UTC day, ISO week (Monday) and month starts.
func NewStatisticsWindow(now time.Time, expiringDays int) StatisticsWindow {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return StatisticsWindow{
		Now:           now,
		DayStart:      day,
		WeekStart:     day.AddDate(0, 0, -offset),
		MonthStart:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		ExpiringUntil: now.AddDate(0, 0, expiringDays),
	}
}
