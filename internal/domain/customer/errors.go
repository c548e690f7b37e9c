package customer

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrPortalUserNotFound = errors.New("portal user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCurrentPasswordBad = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("another customer already uses this email")
	ErrAccountClosed      = errors.New("this customer account is closed")
)
