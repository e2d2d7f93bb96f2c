package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("invalid token claims")

// Claims is the identity carried by an access token.
type Claims struct {
	EmployeeID string
	Email      string
	Role       employee.Role
}

type Service interface {
	GenerateAccessToken(employeeID string, email string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) *JWTService {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, email string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     employeeID,
		"employee_id": employeeID,
		"email":       email,
		"role":        string(role),
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the claims verified by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(raw)
}

func ClaimsFromMap(raw map[string]interface{}) (Claims, error) {
	if tokenType, _ := raw["type"].(string); tokenType != tokenTypeAccess {
		return Claims{}, ErrInvalidClaims
	}

	employeeID, _ := raw["employee_id"].(string)
	if employeeID == "" {
		return Claims{}, ErrInvalidClaims
	}
	roleValue, _ := raw["role"].(string)
	role := employee.Role(roleValue)
	if !role.IsValid() {
		return Claims{}, ErrInvalidClaims
	}
	email, _ := raw["email"].(string)

	return Claims{
		EmployeeID: employeeID,
		Email:      email,
		Role:       role,
	}, nil
}
