package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/config"
	"github.com/isep-jornadas/checkin/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SamplePDF is the smallest document mimetype detects as application/pdf
var SamplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// StudentBuilder creates test students with a builder pattern
type StudentBuilder struct {
	name        string
	email       string
	linkedin    string
	slug        string
	accessToken string
	cv          []byte
}

// NewStudentBuilder creates a new StudentBuilder with default values
func NewStudentBuilder() *StudentBuilder {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return &StudentBuilder{
		name:        "Student " + id[:6],
		email:       fmt.Sprintf("student_%s@isep.ipp.pt", id[:8]),
		slug:        id[:10],
		accessToken: id[:30],
	}
}

func (b *StudentBuilder) WithName(name string) *StudentBuilder {
	b.name = name
	return b
}

func (b *StudentBuilder) WithEmail(email string) *StudentBuilder {
	b.email = email
	return b
}

func (b *StudentBuilder) WithSlug(slug string) *StudentBuilder {
	b.slug = slug
	return b
}

func (b *StudentBuilder) WithAccessToken(token string) *StudentBuilder {
	b.accessToken = token
	return b
}

func (b *StudentBuilder) WithLinkedin(url string) *StudentBuilder {
	b.linkedin = url
	return b
}

// WithCV attaches a PDF to the student
func (b *StudentBuilder) WithCV(data []byte) *StudentBuilder {
	b.cv = data
	return b
}

// Build creates the student in the database
func (b *StudentBuilder) Build(t *testing.T, db *gorm.DB) *domain.Student {
	t.Helper()

	student := &domain.Student{
		ID:                 uuid.New(),
		Slug:               b.slug,
		AccessToken:        b.accessToken,
		Name:               b.name,
		InstitutionalEmail: b.email,
		LinkedinURL:        b.linkedin,
	}
	if b.cv != nil {
		student.CV = domain.CVFile{
			Data:        b.cv,
			ContentType: "application/pdf",
			FileName:    "cv.pdf",
			Size:        int64(len(b.cv)),
		}
	}

	if err := db.Create(student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}

	return student
}

// CompanyBuilder creates test companies with a builder pattern
type CompanyBuilder struct {
	name         string
	email        string
	password     string
	logoURL      string
	websiteURL   string
	inactive     bool
	defaultLogin bool
}

// NewCompanyBuilder creates a new CompanyBuilder with default values
func NewCompanyBuilder() *CompanyBuilder {
	suffix := uuid.New().String()[:8]
	return &CompanyBuilder{
		name:     "Company " + suffix,
		email:    fmt.Sprintf("hr_%s@company.example", suffix),
		password: "testpassword123",
	}
}

func (b *CompanyBuilder) WithName(name string) *CompanyBuilder {
	b.name = name
	return b
}

func (b *CompanyBuilder) WithEmail(email string) *CompanyBuilder {
	b.email = email
	return b
}

func (b *CompanyBuilder) WithPassword(password string) *CompanyBuilder {
	b.password = password
	return b
}

func (b *CompanyBuilder) WithLogo(url string) *CompanyBuilder {
	b.logoURL = url
	return b
}

func (b *CompanyBuilder) WithWebsite(url string) *CompanyBuilder {
	b.websiteURL = url
	return b
}

// Inactive marks the company as not allowed to authenticate
func (b *CompanyBuilder) Inactive() *CompanyBuilder {
	b.inactive = true
	return b
}

// DefaultLogin lets the company log in by name
func (b *CompanyBuilder) DefaultLogin() *CompanyBuilder {
	b.defaultLogin = true
	return b
}

// Build creates the company in the database and returns it with the raw password
func (b *CompanyBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Company, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	company := &domain.Company{
		ID:             uuid.New(),
		Name:           b.name,
		LoginName:      domain.NormalizeLoginName(b.name),
		Email:          domain.NormalizeEmail(b.email),
		LogoURL:        b.logoURL,
		WebsiteURL:     b.websiteURL,
		PasswordHash:   string(hashedPassword),
		Active:         true,
		IsDefaultLogin: b.defaultLogin,
	}

	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create company: %v", err)
	}

	// active has a column default, so a false value is not sent on create
	if b.inactive {
		if err := db.Model(company).Update("active", false).Error; err != nil {
			t.Fatalf("failed to deactivate company: %v", err)
		}
	}

	return company, b.password
}

// ScanAt appends a ledger entry with an explicit timestamp
func ScanAt(t *testing.T, db *gorm.DB, student *domain.Student, company *domain.Company, at time.Time) *domain.ScanEvent {
	t.Helper()

	event := &domain.ScanEvent{
		StudentID: student.ID,
		CompanyID: company.ID,
		ScannedAt: at.UTC().Truncate(time.Microsecond),
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create scan event: %v", err)
	}
	return event
}

// SignToken signs a company token with cfg's secret and issuer
func SignToken(t *testing.T, cfg *config.Config, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-cfg.JWTExpiresIn)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// LoginResponse matches the API company login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Company   struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		LogoURL    string `json:"logoUrl"`
		WebsiteURL string `json:"websiteUrl"`
	} `json:"company"`
}

// LoginCompany logs in through the API and returns the bearer token
func LoginCompany(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()

	resp := DoJSON(t, http.MethodPost, ts.APIURL("/company/auth/login"), map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("login failed with status %d: %s", resp.StatusCode, body)
	}

	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return login.Token
}

// BearerHeader builds the headers for an authenticated company request
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// DoJSON sends body as JSON with the given headers
func DoJSON(t *testing.T, method, url string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// FileField is a file part of a multipart form
type FileField struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// MultipartBody encodes fields and optional files as multipart/form-data
func MultipartBody(t *testing.T, fields map[string]string, files ...FileField) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.FileName))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}
