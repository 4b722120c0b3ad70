package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/moodayhq/mooday-go/internal/domain/user"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateIdentityToken creates a bearer JWT carrying the session token and
// the identity the client needs to render without a round-trip.
func GenerateIdentityToken(identity *user.Identity, sessionToken, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":          identity.ID,
		"email":        identity.Email,
		"authMethod":   string(identity.AuthMethod),
		"sessionToken": sessionToken,
		"iat":          time.Now().UTC().Unix(),
		"exp":          time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// IdentityFromClaims extracts the identity fields from validated claims.
func IdentityFromClaims(claims jwt.MapClaims) (*user.Identity, string) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ""
	}
	email, _ := claims["email"].(string)
	method, _ := claims["authMethod"].(string)
	sessionToken, _ := claims["sessionToken"].(string)
	return &user.Identity{
		ID:         sub,
		Email:      email,
		AuthMethod: user.AuthMethod(method),
	}, sessionToken
}
