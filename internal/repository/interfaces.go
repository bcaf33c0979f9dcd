package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
)

var ErrNotFound = errors.New("record not found")

// DuplicateError reports a unique index violation. Constraint names the
// index that rejected the write.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key violates %s", e.Constraint)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// IsDuplicate reports whether err is a unique violation on constraint, or on
// any constraint when constraint is empty.
func IsDuplicate(err error, constraint string) bool {
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		return false
	}
	return constraint == "" || dup.Constraint == constraint
}

type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	// GetBySlug loads the profile without the CV bytes
	GetBySlug(ctx context.Context, slug string) (*domain.Student, error)
	// GetBySlugWithCV also loads the CV bytes
	GetBySlugWithCV(ctx context.Context, slug string) (*domain.Student, error)
	// GetByIDs loads profiles without CV bytes; missing IDs are skipped
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Student, error)
}

type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	GetByEmail(ctx context.Context, email string) (*domain.Company, error)
	GetDefaultLoginByName(ctx context.Context, loginName string) (*domain.Company, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Company, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// ScanEventRepository is append-only: there is no update or delete.
type ScanEventRepository interface {
	Append(ctx context.Context, event *domain.ScanEvent) error
	// ListByStudent and ListByCompany return newest first, ties broken by
	// insertion order (newest insert first).
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*domain.ScanEvent, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*domain.ScanEvent, error)
}

type Repositories struct {
	Student   StudentRepository
	Company   CompanyRepository
	ScanEvent ScanEventRepository
}
