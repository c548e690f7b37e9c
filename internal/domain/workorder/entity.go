package workorder

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusScheduled  Status = "scheduled"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusScheduled:  "Scheduled",
	StatusAssigned:   "Assigned",
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
		string(StatusPending), string(StatusScheduled), string(StatusAssigned),
		string(StatusInProgress), string(StatusCompleted), string(StatusCancelled),
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityNormal: "Normal",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

func (p Priority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

// Transition is a driver-initiated status change.
type Transition string

const (
	TransitionStart    Transition = "start"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
)

// transitionSources lists the statuses each transition may leave from.
var transitionSources = map[Transition][]Status{
	TransitionStart:    {StatusScheduled, StatusAssigned},
	TransitionComplete: {StatusInProgress},
	TransitionCancel:   {StatusPending, StatusScheduled, StatusAssigned},
}

var transitionTargets = map[Transition]Status{
	TransitionStart:    StatusInProgress,
	TransitionComplete: StatusCompleted,
	TransitionCancel:   StatusCancelled,
}

// Sources returns the statuses t may be applied to.
func (t Transition) Sources() []Status {
	return transitionSources[t]
}

func (t Transition) Target() Status {
	return transitionTargets[t]
}

type WorkOrder struct {
	ID                 string
	CompanyID          string
	OrderNumber        string
	CustomerID         *string
	DriverID           *string
	VehicleID          *string
	ServiceRequestID   *string
	Type               string
	Status             Status
	Priority           Priority
	ScheduledDate      *time.Time
	ServiceAddress     *string
	Description        *string
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CompletionNotes    *string
	CancelledAt        *time.Time
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Can reports whether t is allowed from the current status.
func (w *WorkOrder) Can(t Transition) bool {
	for _, s := range t.Sources() {
		if w.Status == s {
			return true
		}
	}
	return false
}
