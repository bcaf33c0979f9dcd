package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/qr"
	"github.com/isep-jornadas/checkin/internal/repository"
)

type DashboardService struct {
	auth         *AuthService
	studentRepo  repository.StudentRepository
	companyRepo  repository.CompanyRepository
	scanRepo     repository.ScanEventRepository
	qr           qr.Encoder
	links        Links
	studentLimit int
	companyLimit int
}

func NewDashboardService(
	auth *AuthService,
	repos *repository.Repositories,
	encoder qr.Encoder,
	links Links,
	studentLimit, companyLimit int,
) *DashboardService {
	return &DashboardService{
		auth:         auth,
		studentRepo:  repos.Student,
		companyRepo:  repos.Company,
		scanRepo:     repos.ScanEvent,
		qr:           encoder,
		links:        links,
		studentLimit: studentLimit,
		companyLimit: companyLimit,
	}
}

type StudentProfile struct {
	Slug               string `json:"slug"`
	Name               string `json:"name"`
	InstitutionalEmail string `json:"institutionalEmail"`
	LinkedinURL        string `json:"linkedinUrl"`
	HasCV              bool   `json:"hasCv"`
}

func NewStudentProfile(s *domain.Student) StudentProfile {
	return StudentProfile{
		Slug:               s.Slug,
		Name:               s.Name,
		InstitutionalEmail: s.InstitutionalEmail,
		LinkedinURL:        s.LinkedinURL,
		HasCV:              s.HasCV(),
	}
}

type StudentLinks struct {
	PublicProfileURL string `json:"publicProfileUrl"`
	DashboardURL     string `json:"dashboardUrl"`
}

type StudentDashboard struct {
	Student       StudentProfile `json:"student"`
	Links         StudentLinks   `json:"links"`
	QRCodeDataURL string         `json:"qrCodeDataUrl"`
	Scans         []StudentScan  `json:"scans"`
}

type StudentScan struct {
	ID        int64       `json:"id"`
	ScannedAt time.Time   `json:"scannedAt"`
	Company   ScanCompany `json:"company"`
}

// ScanCompany is the public face of the scanning company. ID is nil when the
// company no longer exists.
type ScanCompany struct {
	ID         *uuid.UUID `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LogoURL    string     `json:"logoUrl"`
	WebsiteURL string     `json:"websiteUrl"`
}

func NewScanCompany(c *domain.Company) ScanCompany {
	if c == nil {
		return ScanCompany{Name: domain.MsgRemovedCompany}
	}
	id := c.ID
	branding := c.Branding()
	return ScanCompany{
		ID:         &id,
		Name:       c.Name,
		Email:      c.Email,
		LogoURL:    branding.LogoURL,
		WebsiteURL: branding.WebsiteURL,
	}
}

type CompanyDashboard struct {
	Company ScanCompany   `json:"company"`
	Scans   []CompanyScan `json:"scans"`
}

type CompanyScan struct {
	ID        int64        `json:"id"`
	ScannedAt time.Time    `json:"scannedAt"`
	Student   *ScanStudent `json:"student"`
}

type ScanStudent struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	InstitutionalEmail string    `json:"institutionalEmail"`
	Slug               string    `json:"slug"`
	LinkedinURL        string    `json:"linkedinUrl"`
	HasCV              bool      `json:"hasCv"`
}

// StudentDashboard returns the student's profile, QR code and every company
// that scanned them, newest first.
func (s *DashboardService) StudentDashboard(ctx context.Context, slug, accessToken string) (*StudentDashboard, error) {
	student, err := s.auth.AuthorizeStudent(ctx, slug, accessToken)
	if err != nil {
		return nil, err
	}

	events, err := s.scanRepo.ListByStudent(ctx, student.ID, s.studentLimit)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	companies, err := s.companiesByID(ctx, events)
	if err != nil {
		return nil, err
	}

	publicURL := s.links.PublicProfileURL(student.Slug)
	qrCode, err := s.qr.DataURL(publicURL)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	scans := make([]StudentScan, 0, len(events))
	for _, e := range events {
		scans = append(scans, StudentScan{
			ID:        e.ID,
			ScannedAt: e.ScannedAt,
			Company:   NewScanCompany(companies[e.CompanyID]),
		})
	}

	return &StudentDashboard{
		Student: NewStudentProfile(student),
		Links: StudentLinks{
			PublicProfileURL: publicURL,
			DashboardURL:     s.links.DashboardURL(student.Slug, student.AccessToken),
		},
		QRCodeDataURL: qrCode,
		Scans:         scans,
	}, nil
}

// CompanyDashboard lists the students an authenticated company scanned,
// newest first.
func (s *DashboardService) CompanyDashboard(ctx context.Context, company *domain.Company) (*CompanyDashboard, error) {
	events, err := s.scanRepo.ListByCompany(ctx, company.ID, s.companyLimit)
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	students, err := s.studentsByID(ctx, events)
	if err != nil {
		return nil, err
	}

	scans := make([]CompanyScan, 0, len(events))
	for _, e := range events {
		scan := CompanyScan{ID: e.ID, ScannedAt: e.ScannedAt}
		if st, ok := students[e.StudentID]; ok {
			scan.Student = &ScanStudent{
				ID:                 st.ID,
				Name:               st.Name,
				InstitutionalEmail: st.InstitutionalEmail,
				Slug:               st.Slug,
				LinkedinURL:        st.LinkedinURL,
				HasCV:              st.HasCV(),
			}
		}
		scans = append(scans, scan)
	}

	return &CompanyDashboard{
		Company: NewScanCompany(company),
		Scans:   scans,
	}, nil
}

func (s *DashboardService) companiesByID(ctx context.Context, events []*domain.ScanEvent) (map[uuid.UUID]*domain.Company, error) {
	ids := uniqueIDs(events, func(e *domain.ScanEvent) uuid.UUID { return e.CompanyID })
	companies, err := s.companyRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	byID := make(map[uuid.UUID]*domain.Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}
	return byID, nil
}

func (s *DashboardService) studentsByID(ctx context.Context, events []*domain.ScanEvent) (map[uuid.UUID]*domain.Student, error) {
	ids := uniqueIDs(events, func(e *domain.ScanEvent) uuid.UUID { return e.StudentID })
	students, err := s.studentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	byID := make(map[uuid.UUID]*domain.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}
	return byID, nil
}

func uniqueIDs(events []*domain.ScanEvent, key func(*domain.ScanEvent) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(events))
	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		id := key(e)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
