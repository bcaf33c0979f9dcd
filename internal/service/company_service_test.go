package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/repository/postgres"
	"github.com/isep-jornadas/checkin/internal/service"
	"github.com/isep-jornadas/checkin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCompanyService_Provision(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	companyService := service.NewCompanyService(repos.Company)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       service.ProvisionInput
		wantKind    domain.ErrorKind
		wantLogo    string
		wantWebsite string
	}{
		{
			name: "branding derived from email",
			input: service.ProvisionInput{
				Name:     "Bosch",
				Email:    "Jobs@Bosch.com",
				Password: "password123",
			},
			wantLogo:    "https://logo.clearbit.com/bosch.com",
			wantWebsite: "https://bosch.com",
		},
		{
			name: "explicit branding wins",
			input: service.ProvisionInput{
				Name:       "Blip",
				Email:      "hr@blip.pt",
				Password:   "password123",
				LogoURL:    "https://cdn.blip.pt/logo.svg",
				WebsiteURL: "www.blip.pt",
			},
			wantLogo:    "https://cdn.blip.pt/logo.svg",
			wantWebsite: "https://www.blip.pt",
		},
		{
			name: "duplicate email",
			input: service.ProvisionInput{
				Name:     "Bosch Portugal",
				Email:    "jobs@bosch.com",
				Password: "password123",
			},
			wantKind: domain.KindConflict,
		},
		{
			name: "invalid email",
			input: service.ProvisionInput{
				Name:     "Nope",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantKind: domain.KindValidation,
		},
		{
			name: "short password",
			input: service.ProvisionInput{
				Name:     "Nope",
				Email:    "nope@company.example",
				Password: "short",
			},
			wantKind: domain.KindValidation,
		},
		{
			name: "password over 72 bytes in multibyte runes",
			input: service.ProvisionInput{
				Name:     "Nope",
				Email:    "nope@company.example",
				Password: strings.Repeat("é", 40),
			},
			wantKind: domain.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company, err := companyService.Provision(ctx, tt.input)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.True(t, company.Active)
			assert.Equal(t, domain.NormalizeEmail(tt.input.Email), company.Email)
			assert.Equal(t, tt.wantLogo, company.LogoURL)
			assert.Equal(t, tt.wantWebsite, company.WebsiteURL)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(tt.input.Password)))

			stored, err := repos.Company.GetByID(ctx, company.ID)
			require.NoError(t, err)
			assert.Equal(t, company.LogoURL, stored.LogoURL)
		})
	}
}

func TestCompanyService_Seed(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	companyService := service.NewCompanyService(repos.Company)
	ctx := context.Background()

	inputs := []service.ProvisionInput{
		{Name: "Critical Manufacturing", Email: "jornadas@cmf.com", Password: "password123"},
		{Name: "Bosch", Email: "jornadas@bosch.com", Password: "password123"},
	}

	result, err := companyService.Seed(ctx, inputs)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Skipped)
	for _, c := range result.Created {
		assert.True(t, c.IsDefaultLogin)
	}

	// rerunning leaves existing companies alone
	inputs[1].Password = "a-new-password"
	result, err = companyService.Seed(ctx, inputs)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, []string{"jornadas@cmf.com", "jornadas@bosch.com"}, result.Skipped)

	bosch, err := repos.Company.GetDefaultLoginByName(ctx, "bosch")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(bosch.PasswordHash), []byte("password123")))
}

func TestCompanyService_SetActive(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	companyService := service.NewCompanyService(repos.Company)
	ctx := context.Background()

	company, _ := testutil.NewCompanyBuilder().Build(t, testDB.DB)

	updated, err := companyService.SetActive(ctx, company.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = companyService.SetActive(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
