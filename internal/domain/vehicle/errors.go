package vehicle

import "errors"

var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleNotAssigned = errors.New("vehicle is not assigned to you")
)
