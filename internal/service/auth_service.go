package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/config"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/logger"
	"github.com/isep-jornadas/checkin/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	errMissingBearer   = errors.New("missing bearer token")
	errInactiveCompany = errors.New("company is inactive")
)

// dummyHash is compared against when no company matches, so a failed login
// costs the same whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type AuthService struct {
	companyRepo repository.CompanyRepository
	studentRepo repository.StudentRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewAuthService(companyRepo repository.CompanyRepository, studentRepo repository.StudentRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		companyRepo: companyRepo,
		studentRepo: studentRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// LoginInput takes either an email or, for seeded accounts, the company name
type LoginInput struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

// Session is what a company holds between login and expiry. Logging out is
// the client discarding it.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Company   *domain.Company
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	input.Identifier = strings.TrimSpace(input.Identifier)
	if err := validateInput(input, domain.MsgInvalidCredentials); err != nil {
		return nil, err
	}

	company, err := s.lookupLogin(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
			return nil, domain.NewUnauthenticated(domain.MsgInvalidCompanyLogin, err)
		}
		return nil, domain.NewInternal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.NewUnauthenticated(domain.MsgInvalidCompanyLogin, err)
	}
	if !company.Active {
		return nil, domain.NewUnauthenticated(domain.MsgInvalidCompanyLogin, errInactiveCompany)
	}

	token, expiresAt, err := s.IssueToken(company)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, Company: company}, nil
}

func (s *AuthService) lookupLogin(ctx context.Context, identifier string) (*domain.Company, error) {
	if strings.Contains(identifier, "@") {
		return s.companyRepo.GetByEmail(ctx, identifier)
	}
	return s.companyRepo.GetDefaultLoginByName(ctx, identifier)
}

// IssueToken signs a bearer token for company
func (s *AuthService) IssueToken(company *domain.Company) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTExpiresIn)

	claims := jwt.RegisteredClaims{
		Subject:   company.ID.String(),
		Issuer:    s.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature, issuer and expiry
func (s *AuthService) ValidateToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthenticateBearer resolves an Authorization header value to an active
// company. Every rejection is the same Unauthenticated error; the reason is
// only logged.
func (s *AuthService) AuthenticateBearer(ctx context.Context, authorization string) (*domain.Company, error) {
	company, err := s.authenticate(ctx, authorization)
	if err != nil {
		if errors.Is(err, domain.ErrInternal) {
			return nil, err
		}
		logger.Debug().Err(err).Msg("company authentication rejected")
		return nil, domain.NewUnauthenticated("", err)
	}
	return company, nil
}

func (s *AuthService) authenticate(ctx context.Context, authorization string) (*domain.Company, error) {
	tokenString, err := bearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	companyID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, domain.NewInternal(err)
	}
	if !company.Active {
		return nil, errInactiveCompany
	}
	return company, nil
}

func bearerToken(authorization string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingBearer
	}
	return token, nil
}

// AuthorizeStudent checks a student's static access token. Unknown slugs are
// NotFound; a wrong or missing token is Forbidden.
func (s *AuthService) AuthorizeStudent(ctx context.Context, slug, accessToken string) (*domain.Student, error) {
	student, err := s.studentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, domain.MsgProfileNotFound)
	}
	if accessToken == "" || subtle.ConstantTimeCompare([]byte(accessToken), []byte(student.AccessToken)) != 1 {
		return nil, domain.NewForbidden(domain.MsgInvalidAccess)
	}
	return student, nil
}
