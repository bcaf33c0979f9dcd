package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/api/middleware"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/service"
)

type CompanyHandler struct {
	authService      *service.AuthService
	companyService   *service.CompanyService
	scanService      *service.ScanService
	dashboardService *service.DashboardService
}

func NewCompanyHandler(
	authService *service.AuthService,
	companyService *service.CompanyService,
	scanService *service.ScanService,
	dashboardService *service.DashboardService,
) *CompanyHandler {
	return &CompanyHandler{
		authService:      authService,
		companyService:   companyService,
		scanService:      scanService,
		dashboardService: dashboardService,
	}
}

// LoginRequest carries either the company email or, for default-login
// companies, the company name.
type LoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	Company   service.ScanCompany `json:"company"`
}

type ScanRequest struct {
	Payload string `json:"payload"`
}

type ProvisionRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	LogoURL      string `json:"logoUrl"`
	WebsiteURL   string `json:"websiteUrl"`
	DefaultLogin bool   `json:"defaultLogin"`
}

type SetActiveRequest struct {
	Active *bool `json:"active"`
}

type CompanyResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	LogoURL        string `json:"logoUrl"`
	WebsiteURL     string `json:"websiteUrl"`
	Active         bool   `json:"active"`
	IsDefaultLogin bool   `json:"isDefaultLogin"`
}

func newCompanyResponse(c *domain.Company) CompanyResponse {
	branding := c.Branding()
	return CompanyResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Email:          c.Email,
		LogoURL:        branding.LogoURL,
		WebsiteURL:     branding.WebsiteURL,
		Active:         c.Active,
		IsDefaultLogin: c.IsDefaultLogin,
	}
}

func (h *CompanyHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, domain.NewValidation(domain.MsgInvalidCredentials))
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Name
	}

	session, err := h.authService.Login(r.Context(), service.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Company:   service.NewScanCompany(session.Company),
	})
}

func (h *CompanyHandler) Me(w http.ResponseWriter, r *http.Request) {
	company, ok := middleware.GetCompany(r.Context())
	if !ok {
		WriteError(w, r, domain.NewUnauthenticated("", nil))
		return
	}
	writeJSON(w, http.StatusOK, service.NewScanCompany(company))
}

func (h *CompanyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	company, ok := middleware.GetCompany(r.Context())
	if !ok {
		WriteError(w, r, domain.NewUnauthenticated("", nil))
		return
	}

	dashboard, err := h.dashboardService.CompanyDashboard(r.Context(), company)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// Scan records a scan from the raw QR payload the company's device decoded
func (h *CompanyHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, domain.NewInvalidPayload(err))
		return
	}
	recordScan(w, r, h.scanService, req.Payload)
}

func (h *CompanyHandler) Provision(w http.ResponseWriter, r *http.Request) {
	var req ProvisionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, domain.NewValidation(domain.MsgInvalidCompanyData))
		return
	}

	company, err := h.companyService.Provision(r.Context(), service.ProvisionInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		LogoURL:      req.LogoURL,
		WebsiteURL:   req.WebsiteURL,
		DefaultLogin: req.DefaultLogin,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newCompanyResponse(company))
}

func (h *CompanyHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, domain.NewNotFound(domain.MsgCompanyNotFound))
		return
	}

	var req SetActiveRequest
	if err := decodeJSON(r, &req); err != nil || req.Active == nil {
		WriteError(w, r, domain.NewValidation(domain.MsgInvalidCompanyData))
		return
	}

	company, err := h.companyService.SetActive(r.Context(), id, *req.Active)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newCompanyResponse(company))
}
