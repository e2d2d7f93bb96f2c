package employee

import "errors"

var (
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrEmailExists                = errors.New("email already registered")
	ErrInvalidRole                = errors.New("invalid employee role")
	ErrCarryForwardAlreadyApplied = errors.New("carry forward already applied for this year")
)
