package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	setupKey   string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, setupKey string) *APIClient {
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/") + "/api",
		setupKey: setupKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type Registration struct {
	Slug             string `json:"slug"`
	AccessToken      string `json:"accessToken"`
	PublicProfileURL string `json:"publicProfileUrl"`
	DashboardURL     string `json:"dashboardUrl"`
}

type Company struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Company Company `json:"company"`
}

type ScanResponse struct {
	Message string `json:"message"`
	Scan    struct {
		ID int64 `json:"id"`
	} `json:"scan"`
}

type CompanyDashboard struct {
	Company Company `json:"company"`
	Scans   []struct {
		ID      int64 `json:"id"`
		Student *struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"student"`
	} `json:"scans"`
}

// RegisterStudent signs a student up without a CV
func (c *APIClient) RegisterStudent(name, email string) (*Registration, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("institutionalEmail", email)

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/students", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result Registration
	if err := c.do(req, http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("register student: %w", err)
	}
	return &result, nil
}

// ProvisionCompany creates a company with the setup key. A 409 is not an
// error so the simulator can be rerun against the same database.
func (c *APIClient) ProvisionCompany(name, email, password string) error {
	body := map[string]interface{}{
		"name":         name,
		"email":        email,
		"password":     password,
		"defaultLogin": true,
	}

	req, err := c.jsonRequest(http.MethodPost, "/company/provision", body, "")
	if err != nil {
		return err
	}
	req.Header.Set("X-Setup-Key", c.setupKey)

	err = c.do(req, http.StatusCreated, nil)
	if se, ok := err.(*statusError); ok && se.status == http.StatusConflict {
		return nil
	}
	if err != nil {
		return fmt.Errorf("provision company: %w", err)
	}
	return nil
}

// Login authenticates a company by name or email
func (c *APIClient) Login(identifier, password string) (*LoginResponse, error) {
	body := map[string]string{"password": password}
	if strings.Contains(identifier, "@") {
		body["email"] = identifier
	} else {
		body["name"] = identifier
	}

	req, err := c.jsonRequest(http.MethodPost, "/company/auth/login", body, "")
	if err != nil {
		return nil, err
	}

	var result LoginResponse
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &result, nil
}

// Scan records a scan of the given QR payload
func (c *APIClient) Scan(token, payload string) (*ScanResponse, error) {
	req, err := c.jsonRequest(http.MethodPost, "/company/scans", map[string]string{"payload": payload}, token)
	if err != nil {
		return nil, err
	}

	var result ScanResponse
	if err := c.do(req, http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &result, nil
}

// CompanyDashboard fetches the scans of the logged-in company
func (c *APIClient) CompanyDashboard(token string) (*CompanyDashboard, error) {
	req, err := c.jsonRequest(http.MethodGet, "/company/dashboard", nil, token)
	if err != nil {
		return nil, err
	}

	var result CompanyDashboard
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("company dashboard: %w", err)
	}
	return &result, nil
}

// HTTP helpers

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func (c *APIClient) jsonRequest(method, path string, body interface{}, token string) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *APIClient) do(req *http.Request, expected int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &statusError{status: resp.StatusCode, body: string(bodyBytes)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
