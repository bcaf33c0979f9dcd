package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/ident"
	"github.com/isep-jornadas/checkin/internal/logger"
	"github.com/isep-jornadas/checkin/internal/qr"
	"github.com/isep-jornadas/checkin/internal/repository"
)

const (
	pdfContentType = "application/pdf"

	// maxIdentifierAttempts bounds regeneration after slug/token collisions
	maxIdentifierAttempts = 5
)

type StudentService struct {
	studentRepo    repository.StudentRepository
	ids            ident.Generator
	qr             qr.Encoder
	links          Links
	allowedDomains []string
	maxCVBytes     int64
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	ids ident.Generator,
	encoder qr.Encoder,
	links Links,
	allowedDomains []string,
	maxCVBytes int64,
) *StudentService {
	return &StudentService{
		studentRepo:    studentRepo,
		ids:            ids,
		qr:             encoder,
		links:          links,
		allowedDomains: allowedDomains,
		maxCVBytes:     maxCVBytes,
	}
}

type RegisterStudentInput struct {
	Name               string `validate:"required,max=200"`
	InstitutionalEmail string `validate:"required,max=254"`
	LinkedinURL        string `validate:"max=500"`
	CV                 *CVUpload
}

// CVUpload is the file handed over by the upload collaborator
type CVUpload struct {
	Data        []byte
	ContentType string
	FileName    string
}

type Registration struct {
	Student          *domain.Student
	PublicProfileURL string
	DashboardURL     string
	QRCodeDataURL    string
}

func (s *StudentService) Register(ctx context.Context, input RegisterStudentInput) (*Registration, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.InstitutionalEmail = domain.NormalizeEmail(input.InstitutionalEmail)

	if err := validateInput(input, domain.MsgStudentRequiredFields); err != nil {
		return nil, err
	}
	if !s.isAllowedEmail(input.InstitutionalEmail) {
		return nil, domain.NewValidation("O email deve pertencer a: " + strings.Join(s.allowedDomains, ", "))
	}

	linkedin, err := NormalizeLinkedinURL(input.LinkedinURL)
	if err != nil {
		return nil, domain.NewValidation(domain.MsgInvalidLinkedin)
	}

	student := &domain.Student{
		Name:               input.Name,
		InstitutionalEmail: input.InstitutionalEmail,
		LinkedinURL:        linkedin,
	}
	if input.CV != nil {
		cv, err := s.checkCV(input.CV)
		if err != nil {
			return nil, err
		}
		student.CV = cv
	}

	if err := s.createWithFreshIdentifiers(ctx, student); err != nil {
		return nil, err
	}

	publicURL := s.links.PublicProfileURL(student.Slug)
	qrCode, err := s.qr.DataURL(publicURL)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	return &Registration{
		Student:          student,
		PublicProfileURL: publicURL,
		DashboardURL:     s.links.DashboardURL(student.Slug, student.AccessToken),
		QRCodeDataURL:    qrCode,
	}, nil
}

// createWithFreshIdentifiers relies on the unique indexes to detect
// collisions and mints new identifiers when one is hit.
func (s *StudentService) createWithFreshIdentifiers(ctx context.Context, student *domain.Student) error {
	var lastErr error
	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		slug, err := s.ids.NewSlug()
		if err != nil {
			return domain.NewInternal(err)
		}
		token, err := s.ids.NewAccessToken()
		if err != nil {
			return domain.NewInternal(err)
		}

		student.ID = uuid.New()
		student.Slug = slug
		student.AccessToken = token

		err = s.studentRepo.Create(ctx, student)
		if err == nil {
			return nil
		}
		if !repository.IsDuplicate(err, domain.StudentSlugIndex) &&
			!repository.IsDuplicate(err, domain.StudentAccessTokenIndex) {
			return domain.NewInternal(err)
		}

		logger.Warn().Err(err).Int("attempt", attempt).Msg("student identifier collision, regenerating")
		lastErr = err
	}
	return domain.NewInternal(fmt.Errorf("identifiers still colliding after %d attempts: %w", maxIdentifierAttempts, lastErr))
}

func (s *StudentService) GetPublicProfile(ctx context.Context, slug string) (*domain.Student, error) {
	student, err := s.studentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, domain.MsgProfileNotFound)
	}
	return student, nil
}

// GetCV returns the stored CV and the file name to present it under
func (s *StudentService) GetCV(ctx context.Context, slug string) (*domain.CVFile, string, error) {
	student, err := s.studentRepo.GetBySlugWithCV(ctx, slug)
	if err != nil {
		return nil, "", notFoundOr(err, domain.MsgCVNotFound)
	}
	if !student.HasCV() || len(student.CV.Data) == 0 {
		return nil, "", domain.NewNotFound(domain.MsgCVNotFound)
	}

	name := student.CV.FileName
	if name == "" {
		name = student.Name + "_CV.pdf"
	}
	return &student.CV, name, nil
}

func (s *StudentService) isAllowedEmail(email string) bool {
	d := domain.EmailDomain(email)
	if d == "" {
		return false
	}
	for _, allowed := range s.allowedDomains {
		if d == allowed {
			return true
		}
	}
	return false
}

func (s *StudentService) checkCV(upload *CVUpload) (domain.CVFile, error) {
	size := int64(len(upload.Data))
	if s.maxCVBytes > 0 && size > s.maxCVBytes {
		return domain.CVFile{}, domain.NewValidation(domain.MsgCVTooLarge)
	}

	declared, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil || declared != pdfContentType || size == 0 {
		return domain.CVFile{}, domain.NewValidation(domain.MsgCVMustBePDF)
	}
	if !mimetype.Detect(upload.Data).Is(pdfContentType) {
		return domain.CVFile{}, domain.NewValidation(domain.MsgCVMustBePDF)
	}

	return domain.CVFile{
		Data:        upload.Data,
		ContentType: pdfContentType,
		FileName:    sanitizeFileName(upload.FileName),
		Size:        size,
	}, nil
}

// NormalizeLinkedinURL prefixes https:// when the scheme is missing and
// rejects anything that is not an absolute http(s) URL. Empty input is
// allowed and stays empty.
func NormalizeLinkedinURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if strings.Contains(trimmed, "://") {
			return "", errors.New("unsupported scheme")
		}
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", err
	}
	if u.Host == "" || !strings.Contains(u.Hostname(), ".") {
		return "", errors.New("missing host")
	}
	return trimmed, nil
}

// sanitizeFileName keeps the name safe to echo in a Content-Disposition header
func sanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\r', '\n':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	return name
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFound(message)
	}
	return domain.NewInternal(err)
}
