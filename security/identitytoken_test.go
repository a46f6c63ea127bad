package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "IxrAjDoa2FqElO7IhrSrUJELhUckePEPVpaePlS/Xaw="

func TestCreateIdentityToken(t *testing.T) {
	tokenStr, err := CreateIdentityToken(&WorkerIdentity{
		ID:       "2f5a0a3e-6f0e-4a3b-9a3e-000000000001",
		Name:     "Alex Rivera",
		Role:     "talent_escort",
		DeviceID: "kiosk-3",
	}, testSecret, time.Hour)
	require.NoError(t, err)

	secretBytes, err := base64.StdEncoding.DecodeString(testSecret)
	require.NoError(t, err)

	var claims IdentityClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return secretBytes, nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	assert.Equal(t, "2f5a0a3e-6f0e-4a3b-9a3e-000000000001", claims.Subject)
	assert.Equal(t, "talenttracker", claims.Issuer)
	assert.Equal(t, "talent_escort", claims.Role)
	assert.Equal(t, "kiosk-3", claims.DeviceID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestCreateIdentityTokenBadSecret(t *testing.T) {
	_, err := CreateIdentityToken(&WorkerIdentity{ID: "x"}, "not base64!!!", time.Hour)
	assert.Error(t, err)
}
