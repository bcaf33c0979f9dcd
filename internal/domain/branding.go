package domain

import (
	"net/url"
	"strings"
)

const (
	logoServiceURL   = "https://logo.clearbit.com/"
	avatarServiceURL = "https://ui-avatars.com/api/"
	defaultAvatar    = "Empresa"
)

type Branding struct {
	LogoURL    string `json:"logoUrl"`
	WebsiteURL string `json:"websiteUrl"`
}

// ResolveBranding derives a company's website and logo. Explicit values win;
// the website falls back to the email domain and the logo falls back to a
// logo service keyed by the website host, then to an initials avatar.
// The same inputs always produce the same output.
func ResolveBranding(email, logoURL, websiteURL, name string) Branding {
	website := NormalizeWebsiteURL(websiteURL, email)
	return Branding{
		WebsiteURL: website,
		LogoURL:    NormalizeLogoURL(logoURL, website, name),
	}
}

func NormalizeWebsiteURL(websiteURL, email string) string {
	if trimmed := strings.TrimSpace(websiteURL); trimmed != "" {
		if hasHTTPScheme(trimmed) {
			return trimmed
		}
		return "https://" + trimmed
	}
	if domain := EmailDomain(email); domain != "" {
		return "https://" + domain
	}
	return ""
}

// NormalizeLogoURL expects website to be already normalized
func NormalizeLogoURL(logoURL, website, name string) string {
	if trimmed := strings.TrimSpace(logoURL); trimmed != "" {
		return trimmed
	}
	if u, err := url.Parse(website); err == nil && u.Hostname() != "" {
		return logoServiceURL + u.Hostname()
	}

	display := strings.TrimSpace(name)
	if display == "" {
		display = defaultAvatar
	}
	q := url.Values{}
	q.Set("name", display)
	q.Set("background", "d34600")
	q.Set("color", "fff")
	return avatarServiceURL + "?" + q.Encode()
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
