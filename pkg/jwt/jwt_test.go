package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/almacen-fh/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "almacenista", "almacen-fh", 60)
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "almacenista", role)
}

func TestParse_Rejections(t *testing.T) {
	expirado, err := pkgjwt.Generate(secret, "u-1", "admin", "almacen-fh", -1)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(secret, expirado)
	assert.Error(t, err, "token expirado")

	valido, err := pkgjwt.Generate(secret, "u-1", "admin", "almacen-fh", 60)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse("otro-secreto", valido)
	assert.Error(t, err, "firma con otro secreto")

	_, _, err = pkgjwt.Parse("", valido)
	assert.Error(t, err)
	_, err = pkgjwt.Generate(secret, "", "admin", "almacen-fh", 60)
	assert.Error(t, err)
}

func TestParse_FallsBackToSubject(t *testing.T) {
	claims := gojwt.RegisteredClaims{
		Subject:   "u-legacy",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-legacy", userID)
	assert.Empty(t, role)
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, pkgjwt.Claims{UserID: "u-1"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}
