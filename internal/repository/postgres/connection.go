package postgres

import (
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables. Scan events deliberately carry no
// foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Student{},
		&domain.Company{},
		&domain.ScanEvent{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Student:   NewStudentRepository(db),
		Company:   NewCompanyRepository(db),
		ScanEvent: NewScanEventRepository(db),
	}
}
