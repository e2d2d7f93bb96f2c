package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrInvalidStatus                = errors.New("Invalid leave request status")
	ErrUnauthorizedAccess           = errors.New("Unauthorized to access this leave request")
)
