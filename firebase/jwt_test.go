package firebase

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestVerifyJWTIDTokenRejectsGarbage(t *testing.T) {
	uid, ok := VerifyJWTIDToken("not-a-token", "evently-dev", time.Second)
	assert.False(t, ok)
	assert.Equal(t, "", uid)
}

func TestVerifyJWTIDTokenRejectsEmpty(t *testing.T) {
	uid, ok := VerifyJWTIDToken("", "evently-dev", time.Second)
	assert.False(t, ok)
	assert.Equal(t, "", uid)
}

func TestCheckInterval(t *testing.T) {
	recent := jwt.MapClaims{"exp": float64(time.Now().Add(-time.Minute).Unix())}
	assert.True(t, checkInterval(recent, 2*time.Minute))
	assert.False(t, checkInterval(recent, 30*time.Second))

	missing := jwt.MapClaims{}
	assert.False(t, checkInterval(missing, time.Hour))
}
