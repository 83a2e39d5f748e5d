package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"conferencecentral/internal/domain"
)

// jwtClaims are the claims the identity provider puts in its access tokens.
type jwtClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type jwtVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTVerifier returns a TokenVerifier for HS256 tokens signed with secret.
// The subject claim becomes the user id; expired tokens are rejected.
func NewJWTVerifier(secret string) domain.TokenVerifier {
	return &jwtVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *jwtVerifier) Verify(tokenString string) (*domain.Identity, error) {
	claims := &jwtClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	nickname := claims.Nickname
	if nickname == "" {
		nickname = claims.Email
	}
	return &domain.Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Nickname: nickname,
	}, nil
}
