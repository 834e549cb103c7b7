package employee

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrtools/rptracker/internal/model"
	"github.com/hrtools/rptracker/internal/repository/jsonfile"
	apperrors "github.com/hrtools/rptracker/pkg/errors"
)

const owner = "owner@example.com"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(jsonfile.New(filepath.Join(t.TempDir(), "database.json")))
}

func create(t *testing.T, svc *Service, name string) *model.Employee {
	t.Helper()
	emp, err := svc.Create(context.Background(), owner, &model.Employee{
		FullName:    name,
		QIDNumber:   "28512345678",
		Nationality: "Nepali",
		Gender:      "male",
		ExpiryDate:  "2026-01-15",
	})
	require.NoError(t, err)
	return emp
}

func TestCreateAssignsIdentityAndSerial(t *testing.T) {
	svc := newTestService(t)

	first := create(t, svc, "First")
	second := create(t, svc, "Second")

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, 1, first.SerialNumber)
	assert.Equal(t, 2, second.SerialNumber)
	assert.Equal(t, owner, first.OwnerEmail)
	assert.NotNil(t, first.NotificationsSent)

	listed, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCreateRejectsBadExpiryDate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), owner, &model.Employee{
		FullName:   "X",
		ExpiryDate: "15/01/2026",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

func TestListIsOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	create(t, svc, "Mine")

	other, err := svc.List(context.Background(), "someone-else@example.com")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateMergesProvidedFieldsOnly(t *testing.T) {
	svc := newTestService(t)
	emp := create(t, svc, "Before")

	got, err := svc.Update(context.Background(), owner, emp.ID, &model.Employee{
		FullName:   "After",
		ExpiryDate: "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "After", got.FullName)
	assert.Equal(t, "2026-03-01", got.ExpiryDate)
	assert.Equal(t, "28512345678", got.QIDNumber, "unset fields stay as they were")
}

func TestUpdateIsOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	emp := create(t, svc, "Mine")

	_, err := svc.Update(context.Background(), "intruder@example.com", emp.ID, &model.Employee{FullName: "Stolen"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	emp := create(t, svc, "Gone")

	require.NoError(t, svc.Delete(context.Background(), owner, emp.ID))

	listed, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, listed)

	err = svc.Delete(context.Background(), owner, emp.ID)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}
