package servicerequest

import "time"

type Type string

const (
	TypeExtraPickup       Type = "extra_pickup"
	TypeContainerDelivery Type = "container_delivery"
	TypeContainerRemoval  Type = "container_removal"
	TypeMissedPickup      Type = "missed_pickup"
	TypeBilling           Type = "billing"
	TypeOther             Type = "other"
)

var typeLabels = map[Type]string{
	TypeExtraPickup:       "Extra pickup",
	TypeContainerDelivery: "Container delivery",
	TypeContainerRemoval:  "Container removal",
	TypeMissedPickup:      "Missed pickup",
	TypeBilling:           "Billing question",
	TypeOther:             "Other",
}

func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func Types() []string {
	return []string{
		string(TypeExtraPickup), string(TypeContainerDelivery), string(TypeContainerRemoval),
		string(TypeMissedPickup), string(TypeBilling), string(TypeOther),
	}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
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
		string(StatusPending), string(StatusScheduled), string(StatusInProgress),
		string(StatusCompleted), string(StatusCancelled),
	}
}

// IsOpen is true until the request is completed or cancelled.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusScheduled || s == StatusInProgress
}

type ServiceRequest struct {
	ID                 string
	CompanyID          string
	CustomerID         string
	Type               Type
	Status             Status
	Description        string
	ServiceAddress     *string
	PreferredDate      *time.Time
	ScheduledDate      *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanCancel is only true before the request has been scheduled.
func (r *ServiceRequest) CanCancel() bool {
	return r.Status == StatusPending
}
