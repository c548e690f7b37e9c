package fuellog

import "errors"

var ErrFuelLogNotFound = errors.New("fuel log not found")
