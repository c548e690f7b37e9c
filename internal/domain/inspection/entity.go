package inspection

import "time"

type Type string

const (
	TypePreTrip  Type = "pre_trip"
	TypePostTrip Type = "post_trip"
)

var typeLabels = map[Type]string{
	TypePreTrip:  "Pre-trip",
	TypePostTrip: "Post-trip",
}

func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func Types() []string {
	return []string{string(TypePreTrip), string(TypePostTrip)}
}

type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

var resultLabels = map[Result]string{
	ResultPass: "Passed",
	ResultFail: "Failed",
}

func (r Result) Label() string {
	if l, ok := resultLabels[r]; ok {
		return l
	}
	return string(r)
}

// Item is one checklist line, stored in the items jsonb column.
type Item struct {
	Name   string  `json:"name"`
	Passed bool    `json:"passed"`
	Notes  *string `json:"notes,omitempty"`
}

type Inspection struct {
	ID          string
	CompanyID   string
	DriverID    string
	VehicleID   string
	Type        Type
	Result      Result
	Odometer    *int
	Items       []Item
	Defects     *string
	Notes       *string
	InspectedAt time.Time
	CreatedAt   time.Time
}

// ResultOf fails the inspection when any checklist item failed.
func ResultOf(items []Item) Result {
	for _, item := range items {
		if !item.Passed {
			return ResultFail
		}
	}
	return ResultPass
}
