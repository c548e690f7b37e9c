package servicerequest

import "errors"

var (
	ErrServiceRequestNotFound = errors.New("service request not found")
	ErrCannotCancel           = errors.New("only pending service requests can be cancelled")
)
