package handlers

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/service"
)

// multipartOverhead leaves room for the text fields next to the CV
const multipartOverhead = 1 << 20

type StudentHandler struct {
	studentService   *service.StudentService
	dashboardService *service.DashboardService
	scanService      *service.ScanService
	maxCVBytes       int64
}

func NewStudentHandler(
	studentService *service.StudentService,
	dashboardService *service.DashboardService,
	scanService *service.ScanService,
	maxCVBytes int64,
) *StudentHandler {
	return &StudentHandler{
		studentService:   studentService,
		dashboardService: dashboardService,
		scanService:      scanService,
		maxCVBytes:       maxCVBytes,
	}
}

type RegisterResponse struct {
	Slug             string `json:"slug"`
	AccessToken      string `json:"accessToken"`
	PublicProfileURL string `json:"publicProfileUrl"`
	DashboardURL     string `json:"dashboardUrl"`
	QRCodeDataURL    string `json:"qrCodeDataUrl"`
}

type ScanResponse struct {
	Message string            `json:"message"`
	Scan    ScanEventResponse `json:"scan"`
}

type ScanEventResponse struct {
	ID        int64     `json:"id"`
	ScannedAt time.Time `json:"scannedAt"`
	StudentID string    `json:"studentId"`
	CompanyID string    `json:"companyId"`
}

// Register accepts multipart/form-data with name, institutionalEmail,
// linkedinUrl and an optional cv file.
func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxCVBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxCVBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			WriteError(w, r, domain.NewValidation(domain.MsgCVTooLarge))
			return
		case errors.Is(err, http.ErrNotMultipart):
			if err := r.ParseForm(); err != nil {
				WriteError(w, r, domain.NewValidation(domain.MsgStudentRequiredFields))
				return
			}
		default:
			WriteError(w, r, domain.NewValidation(domain.MsgInvalidUpload))
			return
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	input := service.RegisterStudentInput{
		Name:               r.FormValue("name"),
		InstitutionalEmail: r.FormValue("institutionalEmail"),
		LinkedinURL:        r.FormValue("linkedinUrl"),
	}

	cv, err := h.readCV(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	input.CV = cv

	result, err := h.studentService.Register(r.Context(), input)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Slug:             result.Student.Slug,
		AccessToken:      result.Student.AccessToken,
		PublicProfileURL: result.PublicProfileURL,
		DashboardURL:     result.DashboardURL,
		QRCodeDataURL:    result.QRCodeDataURL,
	})
}

func (h *StudentHandler) readCV(r *http.Request) (*service.CVUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("cv")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, domain.NewValidation(domain.MsgCVMustBePDF)
	}
	defer file.Close()

	if header.Size > h.maxCVBytes {
		return nil, domain.NewValidation(domain.MsgCVTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxCVBytes+1))
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	return &service.CVUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		FileName:    header.Filename,
	}, nil
}

func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	student, err := h.studentService.GetPublicProfile(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.NewStudentProfile(student))
}

func (h *StudentHandler) GetCV(w http.ResponseWriter, r *http.Request) {
	cv, fileName, err := h.studentService.GetCV(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	contentType := cv.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(cv.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(cv.Data)
}

func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.StudentDashboard(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("token"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// Scan records that the authenticated company scanned the student in the path
func (h *StudentHandler) Scan(w http.ResponseWriter, r *http.Request) {
	recordScan(w, r, h.scanService, "/p/"+chi.URLParam(r, "slug"))
}

func recordScan(w http.ResponseWriter, r *http.Request, scans *service.ScanService, payload string) {
	event, err := scans.RecordScan(r.Context(), service.ScanInput{
		Payload:       payload,
		Authorization: r.Header.Get("Authorization"),
		IPAddress:     clientIP(r),
		UserAgent:     r.UserAgent(),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ScanResponse{
		Message: domain.MsgScanRecorded,
		Scan: ScanEventResponse{
			ID:        event.ID,
			ScannedAt: event.ScannedAt,
			StudentID: event.StudentID.String(),
			CompanyID: event.CompanyID.String(),
		},
	})
}

// clientIP prefers the first X-Forwarded-For hop
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
