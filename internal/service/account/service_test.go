package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrtools/rptracker/internal/model"
	"github.com/hrtools/rptracker/internal/repository/jsonfile"
	"github.com/hrtools/rptracker/pkg/auth"
	apperrors "github.com/hrtools/rptracker/pkg/errors"
	"github.com/hrtools/rptracker/pkg/security"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "database.json"))
	hasher := security.NewBcryptHasher(4) // min cost keeps the tests quick
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewService(store, hasher, tokens)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Amina", "amina@example.com", "secret6")
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", user.Email)
	assert.NotEqual(t, "secret6", user.PasswordHash)

	tokens, err := svc.Login(ctx, "amina@example.com", "secret6")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.Equal(t, "Amina", tokens.Name)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Amina", "amina@example.com", "secret6")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other", "amina@example.com", "secret7")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConflict, apperrors.CodeOf(err))
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup(context.Background(), "Amina", "amina@example.com", "short")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Amina", "amina@example.com", "secret6")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "amina@example.com", "wrong-pass")
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))

	_, err = svc.Login(ctx, "nobody@example.com", "secret6")
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestSettingsRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Unset settings read back as an empty, inactive value.
	settings, err := svc.GetSettings(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.False(t, settings.EmailActive())
	assert.False(t, settings.TelegramActive())

	err = svc.SaveSettings(ctx, "amina@example.com", &model.AccountSettings{
		Gmail:         "amina@gmail.com",
		GmailPassword: "app-pass",
		NotifyEmail:   "alerts@example.com",
	})
	require.NoError(t, err)

	settings, err = svc.GetSettings(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.True(t, settings.EmailActive())
	assert.False(t, settings.TelegramActive())
	assert.Equal(t, "alerts@example.com", settings.Recipient())
	assert.False(t, settings.UpdatedAt.IsZero())
}
