package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret firma o validación sin secreto configurado.
var ErrNoSecret = errors.New("jwt: secret vacío")

// Claims: registrados + usuario y rol. El rol viaja en el token para que
// RequireRole decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // admin | teamlead | user
}

var method = jwt.SigningMethodHS256

// Generate firma un token HS256 para userID con vigencia de ttlMinutes.
func Generate(secret, userID, role, issuer string, ttlMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	return jwt.NewWithClaims(method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}).SignedString([]byte(secret))
}

// Parse valida firma y expiración; devuelve usuario y rol del token.
func Parse(secret, raw string) (userID, role string, err error) {
	if secret == "" {
		return "", "", ErrNoSecret
	}
	var claims Claims
	_, err = jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", fmt.Errorf("jwt: %w", err)
	}
	if claims.UserID == "" {
		return "", "", errors.New("jwt: token sin user_id")
	}
	return claims.UserID, claims.Role, nil
}
