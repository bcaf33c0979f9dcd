package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name  string    `json:"name" gorm:"not null"`
	Email string    `json:"email" gorm:"uniqueIndex:idx_companies_email;not null"`
	// LoginName is the case-normalized name used by seeded accounts to log in
	LoginName      string    `json:"-" gorm:"not null;index:idx_companies_login_name,unique,where:is_default_login = true"`
	LogoURL        string    `json:"logoUrl" gorm:"not null;default:''"`
	WebsiteURL     string    `json:"websiteUrl" gorm:"not null;default:''"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	Active         bool      `json:"active" gorm:"not null;default:true"`
	IsDefaultLogin bool      `json:"isDefaultLogin" gorm:"not null;default:false;index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Branding returns the stored branding, deriving whatever is empty
func (c *Company) Branding() Branding {
	return ResolveBranding(c.Email, c.LogoURL, c.WebsiteURL, c.Name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeLoginName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// EmailDomain returns the part after the last '@', or "" when there is no
// local part or no domain.
func EmailDomain(email string) string {
	email = NormalizeEmail(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}
