package vehicle

import "time"

type Type string

const (
	TypeRearLoader  Type = "rear_loader"
	TypeFrontLoader Type = "front_loader"
	TypeSideLoader  Type = "side_loader"
	TypeRollOff     Type = "roll_off"
	TypePickup      Type = "pickup"
	TypeOther       Type = "other"
)

var typeLabels = map[Type]string{
	TypeRearLoader:  "Rear loader",
	TypeFrontLoader: "Front loader",
	TypeSideLoader:  "Side loader",
	TypeRollOff:     "Roll-off",
	TypePickup:      "Pickup",
	TypeOther:       "Other",
}

func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Status string

const (
	StatusActive       Status = "active"
	StatusMaintenance  Status = "maintenance"
	StatusOutOfService Status = "out_of_service"
	StatusRetired      Status = "retired"
)

var statusLabels = map[Status]string{
	StatusActive:       "Active",
	StatusMaintenance:  "In maintenance",
	StatusOutOfService: "Out of service",
	StatusRetired:      "Retired",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Vehicle struct {
	ID           string
	CompanyID    string
	UnitNumber   string
	Make         *string
	Model        *string
	Year         *int
	VIN          *string
	LicensePlate *string
	Type         Type
	Status       Status
	Odometer     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Assignment links a driver to a vehicle until UnassignedAt is set.
type Assignment struct {
	ID           string
	CompanyID    string
	VehicleID    string
	DriverID     string
	AssignedAt   time.Time
	UnassignedAt *time.Time
	Vehicle      Vehicle
}
