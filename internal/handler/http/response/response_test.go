package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid token", jwt.ErrInvalidClaims, http.StatusUnauthorized, CodeUnauthorized},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, CodeNotFound},
		{"duplicate email", employee.ErrEmailExists, http.StatusConflict, CodeConflict},
		{"invalid role", employee.ErrInvalidRole, http.StatusBadRequest, CodeBadRequest},
		{"carry forward repeated", employee.ErrCarryForwardAlreadyApplied, http.StatusConflict, CodeConflict},
		{"leave request not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, CodeNotFound},
		{"invalid status", leave.ErrInvalidStatus, http.StatusBadRequest, CodeBadRequest},
		{"wrapped already processed", fmt.Errorf("approve: %w", leave.ErrLeaveRequestAlreadyProcessed), http.StatusConflict, CodeConflict},
		{"unauthorized access", leave.ErrUnauthorizedAccess, http.StatusForbidden, CodeForbidden},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, CodeInternalServer},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.status, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, c.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "connection reset")
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("create: %w", validator.ValidationErrors{
		{Field: "end_date", Message: "must not be before start_date"},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeValidation, body.Error.Code)
	assert.Equal(t, map[string]string{"end_date": "must not be before start_date"}, body.Error.Details)
}

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMeta(rec, []string{"a", "b"}, &Meta{TotalItems: 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	require.NotNil(t, body.Meta)
	assert.EqualValues(t, 2, body.Meta.TotalItems)
	assert.Equal(t, []any{"a", "b"}, body.Data)
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Leave request created successfully", map[string]string{"id": "x"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Leave request created successfully", body.Message)
}
