package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{jwt.ErrInvalidClaims, http.StatusUnauthorized, CodeUnauthorized, "Invalid access token"},

	{employee.ErrEmployeeNotFound, http.StatusNotFound, CodeNotFound, "Employee not found"},
	{employee.ErrEmailExists, http.StatusConflict, CodeConflict, "Email already registered"},
	{employee.ErrInvalidRole, http.StatusBadRequest, CodeBadRequest, "Invalid employee role"},
	{employee.ErrCarryForwardAlreadyApplied, http.StatusConflict, CodeConflict, "Carry forward already applied for this year"},

	{leave.ErrLeaveRequestNotFound, http.StatusNotFound, CodeNotFound, "Leave request not found"},
	{leave.ErrInvalidStatus, http.StatusBadRequest, CodeBadRequest, "Invalid leave request status"},
	{leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, CodeConflict, "Leave request already processed"},
	{leave.ErrUnauthorizedAccess, http.StatusForbidden, CodeForbidden, "Not allowed to access this leave request"},
}

// HandleError writes the response for an error returned by a service.
// Unknown errors are logged and reported as 500 without their text.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			fail(w, m.status, m.code, m.message, nil)
			return
		}
	}

	slog.Error("Unhandled error", "error", err)
	fail(w, http.StatusInternalServerError, CodeInternalServer, "An unexpected error occurred", nil)
}
