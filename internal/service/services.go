package service

import (
	"github.com/isep-jornadas/checkin/internal/config"
	"github.com/isep-jornadas/checkin/internal/ident"
	"github.com/isep-jornadas/checkin/internal/qr"
	"github.com/isep-jornadas/checkin/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Student   *StudentService
	Company   *CompanyService
	Scan      *ScanService
	Dashboard *DashboardService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	links := NewLinks(cfg.AppBaseURL)
	encoder := qr.NewEncoder()
	auth := NewAuthService(repos.Company, repos.Student, cfg)

	return &Services{
		Auth:      auth,
		Student:   NewStudentService(repos.Student, ident.NewGenerator(), encoder, links, cfg.AllowedStudentEmailDomains, cfg.MaxCVBytes),
		Company:   NewCompanyService(repos.Company),
		Scan:      NewScanService(auth, repos.Student, repos.ScanEvent),
		Dashboard: NewDashboardService(auth, repos, encoder, links, cfg.StudentScanLimit, cfg.CompanyScanLimit),
	}
}
