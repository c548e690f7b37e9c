package maintenance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePreventive Type = "preventive"
	TypeRepair     Type = "repair"
	TypeTire       Type = "tire"
	TypeInspection Type = "inspection"
	TypeOther      Type = "other"
)

var typeLabels = map[Type]string{
	TypePreventive: "Preventive",
	TypeRepair:     "Repair",
	TypeTire:       "Tire",
	TypeInspection: "Inspection",
	TypeOther:      "Other",
}

func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func Types() []string {
	return []string{
		string(TypePreventive), string(TypeRepair), string(TypeTire),
		string(TypeInspection), string(TypeOther),
	}
}

type Status string

const (
	StatusRequested  Status = "requested"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusRequested:  "Requested",
	StatusScheduled:  "Scheduled",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func Statuses() []string {
	return []string{
		string(StatusRequested), string(StatusScheduled), string(StatusInProgress),
		string(StatusCompleted), string(StatusCancelled),
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func Priorities() []string {
	return []string{string(PriorityLow), string(PriorityNormal), string(PriorityHigh), string(PriorityUrgent)}
}

type Record struct {
	ID                 string
	CompanyID          string
	VehicleID          string
	ReportedByDriverID *string
	Type               Type
	Status             Status
	Priority           Priority
	Description        string
	Odometer           *int
	Cost               decimal.NullDecimal
	ScheduledDate      *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
