package workorder

import "errors"

var (
	ErrWorkOrderNotFound = errors.New("work order not found")
	ErrInvalidTransition = errors.New("work order cannot change to the requested status")
)
