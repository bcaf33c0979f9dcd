package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/qr"
	"github.com/isep-jornadas/checkin/internal/repository"
	"github.com/isep-jornadas/checkin/internal/repository/postgres"
	"github.com/isep-jornadas/checkin/internal/service"
	"github.com/isep-jornadas/checkin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardService(t *testing.T, studentLimit, companyLimit int) (*service.DashboardService, *repository.Repositories, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.Company, repos.Student, testutil.TestConfig())
	svc := service.NewDashboardService(
		authService,
		repos,
		qr.NewEncoder(),
		service.NewLinks("https://jornadas.example"),
		studentLimit,
		companyLimit,
	)
	return svc, repos, testDB
}

func TestDashboardService_StudentDashboard(t *testing.T) {
	dashboardService, _, testDB := newDashboardService(t, 500, 200)
	ctx := context.Background()

	student := testutil.NewStudentBuilder().WithName("Ana Silva").WithCV(testutil.SamplePDF).Build(t, testDB.DB)
	other := testutil.NewStudentBuilder().Build(t, testDB.DB)

	bosch, _ := testutil.NewCompanyBuilder().
		WithName("Bosch").
		WithEmail("jobs@bosch.com").
		Build(t, testDB.DB)
	blip, _ := testutil.NewCompanyBuilder().
		WithName("Blip").
		WithEmail("hr@blip.pt").
		WithLogo("https://cdn.blip.pt/logo.svg").
		Build(t, testDB.DB)
	removed, _ := testutil.NewCompanyBuilder().WithName("Gone").Build(t, testDB.DB)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	testutil.ScanAt(t, testDB.DB, student, bosch, base)
	testutil.ScanAt(t, testDB.DB, student, blip, base.Add(time.Hour))
	testutil.ScanAt(t, testDB.DB, student, removed, base.Add(2*time.Hour))
	testutil.ScanAt(t, testDB.DB, other, bosch, base.Add(3*time.Hour))

	require.NoError(t, testDB.DB.Delete(removed).Error)

	t.Run("own dashboard", func(t *testing.T) {
		dashboard, err := dashboardService.StudentDashboard(ctx, student.Slug, student.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, "Ana Silva", dashboard.Student.Name)
		assert.True(t, dashboard.Student.HasCV)
		assert.Equal(t, "https://jornadas.example/p/"+student.Slug, dashboard.Links.PublicProfileURL)
		assert.Contains(t, dashboard.Links.DashboardURL, student.AccessToken)
		assert.True(t, strings.HasPrefix(dashboard.QRCodeDataURL, "data:image/png;base64,"))

		require.Len(t, dashboard.Scans, 3)

		// newest first; the deleted company is shown as a tombstone
		assert.Nil(t, dashboard.Scans[0].Company.ID)
		assert.Equal(t, domain.MsgRemovedCompany, dashboard.Scans[0].Company.Name)

		assert.Equal(t, "Blip", dashboard.Scans[1].Company.Name)
		assert.Equal(t, "https://cdn.blip.pt/logo.svg", dashboard.Scans[1].Company.LogoURL)
		assert.Equal(t, "https://blip.pt", dashboard.Scans[1].Company.WebsiteURL)

		require.NotNil(t, dashboard.Scans[2].Company.ID)
		assert.Equal(t, bosch.ID, *dashboard.Scans[2].Company.ID)
		assert.Equal(t, "https://bosch.com", dashboard.Scans[2].Company.WebsiteURL)
		assert.Equal(t, "https://logo.clearbit.com/bosch.com", dashboard.Scans[2].Company.LogoURL)
	})

	t.Run("another student's token", func(t *testing.T) {
		_, err := dashboardService.StudentDashboard(ctx, student.Slug, other.AccessToken)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := dashboardService.StudentDashboard(ctx, "nobody", student.AccessToken)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no scans is an empty list", func(t *testing.T) {
		fresh := testutil.NewStudentBuilder().Build(t, testDB.DB)
		dashboard, err := dashboardService.StudentDashboard(ctx, fresh.Slug, fresh.AccessToken)
		require.NoError(t, err)
		assert.NotNil(t, dashboard.Scans)
		assert.Empty(t, dashboard.Scans)
	})
}

func TestDashboardService_CompanyDashboard(t *testing.T) {
	dashboardService, _, testDB := newDashboardService(t, 500, 2)
	ctx := context.Background()

	company, _ := testutil.NewCompanyBuilder().WithName("Bosch").WithEmail("jobs@bosch.com").Build(t, testDB.DB)
	first := testutil.NewStudentBuilder().WithName("First").Build(t, testDB.DB)
	second := testutil.NewStudentBuilder().WithName("Second").WithCV(testutil.SamplePDF).Build(t, testDB.DB)
	deleted := testutil.NewStudentBuilder().WithName("Deleted").Build(t, testDB.DB)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	testutil.ScanAt(t, testDB.DB, first, company, base)
	testutil.ScanAt(t, testDB.DB, second, company, base.Add(time.Hour))
	testutil.ScanAt(t, testDB.DB, deleted, company, base.Add(2*time.Hour))
	require.NoError(t, testDB.DB.Delete(deleted).Error)

	dashboard, err := dashboardService.CompanyDashboard(ctx, company)
	require.NoError(t, err)

	require.NotNil(t, dashboard.Company.ID)
	assert.Equal(t, company.ID, *dashboard.Company.ID)
	assert.Equal(t, "https://bosch.com", dashboard.Company.WebsiteURL)

	// capped at two, newest first
	require.Len(t, dashboard.Scans, 2)
	assert.Nil(t, dashboard.Scans[0].Student)
	require.NotNil(t, dashboard.Scans[1].Student)
	assert.Equal(t, "Second", dashboard.Scans[1].Student.Name)
	assert.Equal(t, second.Slug, dashboard.Scans[1].Student.Slug)
	assert.True(t, dashboard.Scans[1].Student.HasCV)
	assert.True(t, dashboard.Scans[0].ScannedAt.After(dashboard.Scans[1].ScannedAt))
}
