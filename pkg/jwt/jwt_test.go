package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timesheet-api/pkg/jwt"
)

const secret = "secreto-de-prueba-suficientemente-largo"

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "teamlead", "timesheet", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)

	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "teamlead", role)
}

func TestSinSecreto(t *testing.T) {
	_, err := jwt.Generate("", "u1", "user", "", 5)
	assert.ErrorIs(t, err, jwt.ErrNoSecret)

	_, _, err = jwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, jwt.ErrNoSecret)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "user", "", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)

	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_RechazaOtroAlgoritmo(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, jwt.Claims{UserID: "u1"}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)

	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}
