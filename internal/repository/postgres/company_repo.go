package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/repository"
	"gorm.io/gorm"
)

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *companyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	return translateError(r.db.WithContext(ctx).Create(company).Error)
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}

func (r *companyRepository) GetByEmail(ctx context.Context, email string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).First(&company, "email = ?", domain.NormalizeEmail(email)).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}

func (r *companyRepository) GetDefaultLoginByName(ctx context.Context, loginName string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).
		Where("login_name = ? AND is_default_login = ?", domain.NormalizeLoginName(loginName), true).
		First(&company).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}

func (r *companyRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var companies []*domain.Company
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&companies).Error; err != nil {
		return nil, translateError(err)
	}
	return companies, nil
}

func (r *companyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Company{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
