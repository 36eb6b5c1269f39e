package jwt

import (
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken("w-1", "Piet", auth.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	id, err := IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{WorkerID: "w-1", Name: "Piet", Role: auth.RoleEmployee}, id)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("test-secret", "soon")
	assert.Error(t, err)
}

func TestIdentityFromClaims_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
	}{
		{name: "wrong type", claims: map[string]interface{}{ClaimType: "refresh", ClaimWorkerID: "w-1", ClaimRole: "admin"}},
		{name: "missing worker", claims: map[string]interface{}{ClaimType: "access", ClaimRole: "admin"}},
		{name: "unknown role", claims: map[string]interface{}{ClaimType: "access", ClaimWorkerID: "w-1", ClaimRole: "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IdentityFromClaims(tt.claims)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
