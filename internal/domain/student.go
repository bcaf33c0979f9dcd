package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student is created once at registration and never edited afterwards.
type Student struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Slug               string    `json:"slug" gorm:"size:64;uniqueIndex:idx_students_slug;not null"`
	AccessToken        string    `json:"-" gorm:"size:64;uniqueIndex:idx_students_access_token;not null"`
	Name               string    `json:"name" gorm:"not null"`
	InstitutionalEmail string    `json:"institutionalEmail" gorm:"not null;index"`
	LinkedinURL        string    `json:"linkedinUrl" gorm:"not null;default:''"`
	CV                 CVFile    `json:"-" gorm:"embedded;embeddedPrefix:cv_"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CVFile is the uploaded curriculum. Size is kept separately so listings can
// report HasCV without loading Data.
type CVFile struct {
	Data        []byte `gorm:"type:bytea"`
	ContentType string
	FileName    string
	Size        int64 `gorm:"not null;default:0"`
}

func (s *Student) HasCV() bool {
	return s.CV.Size > 0
}

// Unique index names, used to tell slug and token collisions apart
const (
	StudentSlugIndex        = "idx_students_slug"
	StudentAccessTokenIndex = "idx_students_access_token"
	CompanyEmailIndex       = "idx_companies_email"
	CompanyLoginNameIndex   = "idx_companies_login_name"
)
