package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// WorkerIdentity identifies a worker (or kiosk device acting for one) when
// minting an API token.
type WorkerIdentity struct {
	ID       string
	Name     string
	Role     string
	DeviceID string
}

type IdentityClaims struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	DeviceID string `json:"deviceId,omitempty"`
	jwt.RegisteredClaims
}

// CreateIdentityToken mints an HS256 token for identity. The secret arrives
// base64-encoded, matching how it is stored in the parameter store.
func CreateIdentityToken(identity *WorkerIdentity, base64Secret string, expiresIn time.Duration) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}

	claims := IdentityClaims{
		Name:     identity.Name,
		Role:     identity.Role,
		DeviceID: identity.DeviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    "talenttracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretBytes)
}
