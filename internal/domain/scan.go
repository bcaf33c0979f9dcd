package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent is an append-only ledger row. StudentID and CompanyID carry no
// foreign key; readers must cope with either side having disappeared.
type ScanEvent struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID uuid.UUID `json:"studentId" gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID `json:"companyId" gorm:"type:uuid;not null;index"`
	ScannedAt time.Time `json:"scannedAt" gorm:"not null;index"`
	IPAddress string    `json:"-" gorm:"not null;default:''"`
	UserAgent string    `json:"-" gorm:"not null;default:''"`
}
