package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrtools/rptracker/internal/model"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	user := &model.User{Name: "Amina", Email: "amina@example.com"}

	token, err := svc.Generate(user)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", claims.Subject)
	assert.Equal(t, "Amina", claims.Name)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Generate(&model.User{Email: "x@example.com"})
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", -time.Minute)
	token, err := svc.Generate(&model.User{Email: "x@example.com"})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).Validate("not.a.token")
	assert.Error(t, err)
}
