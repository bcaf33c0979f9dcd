package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/ident"
	"github.com/isep-jornadas/checkin/internal/logger"
	"github.com/isep-jornadas/checkin/internal/repository"
)

const profilePathPrefix = "/p/"

type ScanService struct {
	auth        *AuthService
	studentRepo repository.StudentRepository
	scanRepo    repository.ScanEventRepository
	now         func() time.Time
}

func NewScanService(auth *AuthService, studentRepo repository.StudentRepository, scanRepo repository.ScanEventRepository) *ScanService {
	return &ScanService{
		auth:        auth,
		studentRepo: studentRepo,
		scanRepo:    scanRepo,
		now:         time.Now,
	}
}

type ScanInput struct {
	// Payload is the text decoded from the QR code
	Payload string
	// Authorization is the raw Authorization header of the scanning company
	Authorization string
	IPAddress     string
	UserAgent     string
}

// RecordScan authorizes the company, resolves the scanned student and
// appends a ledger entry. It is not idempotent: scanning the same student
// again appends another event.
func (s *ScanService) RecordScan(ctx context.Context, input ScanInput) (*domain.ScanEvent, error) {
	company, err := s.auth.AuthenticateBearer(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	slug, err := ParseScanPayload(input.Payload)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, domain.MsgProfileNotFound)
	}

	event := &domain.ScanEvent{
		StudentID: student.ID,
		CompanyID: company.ID,
		ScannedAt: s.now().UTC().Truncate(time.Microsecond),
		IPAddress: truncate(input.IPAddress, 100),
		UserAgent: truncate(input.UserAgent, 512),
	}
	if err := s.scanRepo.Append(ctx, event); err != nil {
		return nil, domain.NewInternal(err)
	}

	logger.Info().
		Int64("scan_id", event.ID).
		Str("company_id", company.ID.String()).
		Str("student_slug", slug).
		Msg("scan recorded")

	return event, nil
}

// ParseScanPayload extracts the slug from a decoded QR string. Accepted
// shapes are a bare "/p/<slug>" path or an absolute http(s) URL with that
// path; query and fragment are ignored. Runs of slashes in the path count as
// one.
func ParseScanPayload(payload string) (string, error) {
	p := strings.TrimSpace(payload)
	if p == "" {
		return "", domain.NewInvalidPayload(errors.New("empty payload"))
	}

	u, err := url.Parse(p)
	if err != nil {
		return "", domain.NewInvalidPayload(err)
	}

	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", domain.NewInvalidPayload(fmt.Errorf("unsupported payload %q", p))
		}
	}

	path := u.Path
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	rest, ok := strings.CutPrefix(strings.TrimSuffix(path, "/"), profilePathPrefix)
	if !ok || !ident.IsSlug(rest) {
		return "", domain.NewInvalidPayload(fmt.Errorf("path %q is not a profile path", u.Path))
	}
	return rest, nil
}

// truncate cuts s to at most max bytes without leaving a broken rune
func truncate(s string, max int) string {
	if len(s) > max {
		s = s[:max]
	}
	return strings.ToValidUTF8(s, "")
}
