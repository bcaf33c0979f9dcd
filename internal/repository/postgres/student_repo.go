package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"gorm.io/gorm"
)

const cvDataColumn = "cv_data"

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	return translateError(r.db.WithContext(ctx).Create(student).Error)
}

func (r *studentRepository) GetBySlug(ctx context.Context, slug string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).Omit(cvDataColumn).First(&student, "slug = ?", slug).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &student, nil
}

func (r *studentRepository) GetBySlugWithCV(ctx context.Context, slug string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).First(&student, "slug = ?", slug).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &student, nil
}

func (r *studentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var students []*domain.Student
	err := r.db.WithContext(ctx).Omit(cvDataColumn).Where("id IN ?", ids).Find(&students).Error
	if err != nil {
		return nil, translateError(err)
	}
	return students, nil
}
