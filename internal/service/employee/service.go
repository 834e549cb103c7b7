// Package employee implements owner-scoped CRUD over the snapshot store.
package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrtools/rptracker/internal/expiry"
	"github.com/hrtools/rptracker/internal/model"
	"github.com/hrtools/rptracker/internal/repository"
	apperrors "github.com/hrtools/rptracker/pkg/errors"
)

type Servicer interface {
	List(ctx context.Context, ownerEmail string) ([]*model.Employee, error)
	Create(ctx context.Context, ownerEmail string, emp *model.Employee) (*model.Employee, error)
	Update(ctx context.Context, ownerEmail string, id uuid.UUID, changes *model.Employee) (*model.Employee, error)
	Delete(ctx context.Context, ownerEmail string, id uuid.UUID) error
}

type Service struct {
	store repository.SnapshotStore
}

func NewService(store repository.SnapshotStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, ownerEmail string) ([]*model.Employee, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap.EmployeesOf(ownerEmail), nil
}

// Create registers an employee under the owner, assigning the id, the dense
// per-owner serial number and an empty send log.
func (s *Service) Create(ctx context.Context, ownerEmail string, emp *model.Employee) (*model.Employee, error) {
	if err := validateExpiry(emp.ExpiryDate); err != nil {
		return nil, err
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	emp.ID = uuid.New()
	emp.OwnerEmail = ownerEmail
	emp.SerialNumber = len(snap.EmployeesOf(ownerEmail)) + 1
	emp.NotificationsSent = []model.SendRecord{}
	emp.CreatedAt = time.Now()

	snap.Employees = append(snap.Employees, emp)
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return emp, nil
}

// Update merges the provided profile fields into the stored employee. The
// notification log is never writable through this path; only the scheduler
// appends to it.
func (s *Service) Update(ctx context.Context, ownerEmail string, id uuid.UUID, changes *model.Employee) (*model.Employee, error) {
	if changes.ExpiryDate != "" {
		if err := validateExpiry(changes.ExpiryDate); err != nil {
			return nil, err
		}
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	emp := findEmployee(snap, ownerEmail, id)
	if emp == nil {
		return nil, apperrors.NotFound("employee", repository.ErrNotFound)
	}

	if changes.FullName != "" {
		emp.FullName = changes.FullName
	}
	if changes.QIDNumber != "" {
		emp.QIDNumber = changes.QIDNumber
	}
	if changes.Nationality != "" {
		emp.Nationality = changes.Nationality
	}
	if changes.Gender != "" {
		emp.Gender = changes.Gender
	}
	if changes.ExpiryDate != "" {
		emp.ExpiryDate = changes.ExpiryDate
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return emp, nil
}

func (s *Service) Delete(ctx context.Context, ownerEmail string, id uuid.UUID) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	kept := snap.Employees[:0]
	found := false
	for _, e := range snap.Employees {
		if e.ID == id && e.OwnerEmail == ownerEmail {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return apperrors.NotFound("employee", repository.ErrNotFound)
	}
	snap.Employees = kept

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func findEmployee(snap *model.Snapshot, ownerEmail string, id uuid.UUID) *model.Employee {
	for _, e := range snap.Employees {
		if e.ID == id && e.OwnerEmail == ownerEmail {
			return e
		}
	}
	return nil
}

func validateExpiry(date string) error {
	if strings.TrimSpace(date) == "" {
		return apperrors.BadRequest("expiry date is required", nil)
	}
	if _, err := expiry.ParseDate(date); err != nil {
		return apperrors.BadRequest("expiry date must be YYYY-MM-DD", err)
	}
	return nil
}
