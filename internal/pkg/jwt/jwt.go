package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
)

// Claim names carried by access tokens.
const (
	ClaimWorkerID = "worker_id"
	ClaimName     = "name"
	ClaimRole     = "role"
	ClaimType     = "type"

	tokenTypeAccess = "access"
)

type Service interface {
	GenerateAccessToken(workerID string, name string, role auth.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("parse access token expiration: %w", err)
	}

	return &JWTService{
		accessTokenExpirationTime: expiration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(workerID string, name string, role auth.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		ClaimWorkerID: workerID,
		ClaimName:     name,
		ClaimRole:     string(role),
		ClaimType:     tokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// IdentityFromClaims turns verified access token claims into a caller identity.
func IdentityFromClaims(claims map[string]interface{}) (auth.Identity, error) {
	if t, _ := claims[ClaimType].(string); t != tokenTypeAccess {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	workerID, _ := claims[ClaimWorkerID].(string)
	if workerID == "" {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	role := auth.Role(fmt.Sprint(claims[ClaimRole]))
	if role != auth.RoleAdmin && role != auth.RoleEmployee {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	name, _ := claims[ClaimName].(string)

	return auth.Identity{
		WorkerID: workerID,
		Name:     name,
		Role:     role,
	}, nil
}
