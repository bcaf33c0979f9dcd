package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/logger"
	"github.com/isep-jornadas/checkin/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

type CompanyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

type ProvisionInput struct {
	Name       string `validate:"required,max=200" yaml:"name"`
	Email      string `validate:"required,email,max=254" yaml:"email"`
	Password   string `validate:"required,min=8,max=72" yaml:"password"`
	LogoURL    string `validate:"max=1000" yaml:"logoUrl"`
	WebsiteURL string `validate:"max=1000" yaml:"websiteUrl"`
	// DefaultLogin lets the company log in by name as well as by email
	DefaultLogin bool `yaml:"defaultLogin"`
}

// Provision creates a company. Duplicate emails are detected by the unique
// index, so two concurrent requests cannot both succeed.
func (s *CompanyService) Provision(ctx context.Context, input ProvisionInput) (*domain.Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)

	if err := validateInput(input, domain.MsgInvalidCompanyData); err != nil {
		return nil, err
	}
	if len(input.Password) > MaxPasswordBytes {
		return nil, domain.NewValidation(domain.MsgInvalidCompanyData)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	branding := domain.ResolveBranding(input.Email, input.LogoURL, input.WebsiteURL, input.Name)
	company := &domain.Company{
		ID:             uuid.New(),
		Name:           input.Name,
		LoginName:      domain.NormalizeLoginName(input.Name),
		Email:          input.Email,
		LogoURL:        branding.LogoURL,
		WebsiteURL:     branding.WebsiteURL,
		PasswordHash:   string(hash),
		Active:         true,
		IsDefaultLogin: input.DefaultLogin,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		if repository.IsDuplicate(err, "") {
			return nil, domain.NewConflict(domain.MsgCompanyExists, err)
		}
		return nil, domain.NewInternal(err)
	}

	logger.Info().Str("company_id", company.ID.String()).Str("email", company.Email).Msg("company provisioned")
	return company, nil
}

func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.MsgCompanyNotFound)
	}
	return company, nil
}

// SetActive toggles whether the company may authenticate. It is the only
// mutation a company record ever receives.
func (s *CompanyService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Company, error) {
	if err := s.companyRepo.SetActive(ctx, id, active); err != nil {
		return nil, notFoundOr(err, domain.MsgCompanyNotFound)
	}
	return s.GetByID(ctx, id)
}

// SeedResult reports what Seed did with each entry
type SeedResult struct {
	Created []*domain.Company
	Skipped []string
}

// Seed creates the default-login companies that do not exist yet. Existing
// companies are left as they are.
func (s *CompanyService) Seed(ctx context.Context, inputs []ProvisionInput) (*SeedResult, error) {
	result := &SeedResult{}
	for _, input := range inputs {
		input.DefaultLogin = true
		company, err := s.Provision(ctx, input)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				result.Skipped = append(result.Skipped, domain.NormalizeEmail(input.Email))
				continue
			}
			return result, err
		}
		result.Created = append(result.Created, company)
	}
	return result, nil
}
