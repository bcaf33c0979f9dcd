package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"gorm.io/gorm"
)

const ledgerOrder = "scanned_at DESC, id DESC"

type scanEventRepository struct {
	db *gorm.DB
}

func NewScanEventRepository(db *gorm.DB) *scanEventRepository {
	return &scanEventRepository{db: db}
}

// Append inserts a single row; the insert is one statement so a dropped
// request never leaves a partial event behind.
func (r *scanEventRepository) Append(ctx context.Context, event *domain.ScanEvent) error {
	return translateError(r.db.WithContext(ctx).Create(event).Error)
}

func (r *scanEventRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*domain.ScanEvent, error) {
	return r.list(ctx, "student_id = ?", studentID, limit)
}

func (r *scanEventRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*domain.ScanEvent, error) {
	return r.list(ctx, "company_id = ?", companyID, limit)
}

func (r *scanEventRepository) list(ctx context.Context, where string, id uuid.UUID, limit int) ([]*domain.ScanEvent, error) {
	var events []*domain.ScanEvent
	q := r.db.WithContext(ctx).Where(where, id).Order(ledgerOrder)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, translateError(err)
	}
	return events, nil
}
