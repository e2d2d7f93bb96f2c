package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken("0192a8e4-4c1a-7b8e-9f3a-1b2c3d4e5f60", "ana@example.com", employee.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	raw, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	claims, err := ClaimsFromMap(raw)
	require.NoError(t, err)
	assert.Equal(t, "0192a8e4-4c1a-7b8e-9f3a-1b2c3d4e5f60", claims.EmployeeID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, employee.RoleManager, claims.Role)
}

func TestJWTService_GenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")
	_, _, err := svc.GenerateAccessToken("id", "a@example.com", employee.RoleEmployee)
	assert.Error(t, err)
}

func TestClaimsFromMap_Rejects(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"refresh token": {"type": "refresh", "employee_id": "x", "role": "hr"},
		"missing id":    {"type": "access", "role": "hr"},
		"unknown role":  {"type": "access", "employee_id": "x", "role": "owner"},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ClaimsFromMap(raw)
			assert.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}
