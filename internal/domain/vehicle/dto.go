package vehicle

import "time"

type VehicleResponse struct {
	ID           string  `json:"id"`
	UnitNumber   string  `json:"unit_number"`
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
	Year         *int    `json:"year,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	Type         Type    `json:"type"`
	TypeLabel    string  `json:"type_label"`
	Status       Status  `json:"status"`
	StatusLabel  string  `json:"status_label"`
	Odometer     int     `json:"odometer"`
}

func NewVehicleResponse(v Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID,
		UnitNumber:   v.UnitNumber,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		LicensePlate: v.LicensePlate,
		Type:         v.Type,
		TypeLabel:    v.Type.Label(),
		Status:       v.Status,
		StatusLabel:  v.Status.Label(),
		Odometer:     v.Odometer,
	}
}

type AssignmentResponse struct {
	ID         string          `json:"id"`
	AssignedAt time.Time       `json:"assigned_at"`
	Vehicle    VehicleResponse `json:"vehicle"`
}

func NewAssignmentResponse(a Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		AssignedAt: a.AssignedAt,
		Vehicle:    NewVehicleResponse(a.Vehicle),
	}
}
