package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/isep-jornadas/checkin/internal/domain"
	"github.com/isep-jornadas/checkin/internal/ident"
	"github.com/isep-jornadas/checkin/internal/qr"
	"github.com/isep-jornadas/checkin/internal/repository/postgres"
	"github.com/isep-jornadas/checkin/internal/service"
	"github.com/isep-jornadas/checkin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator hands out fixed identifiers, repeating the last one
type scriptedGenerator struct {
	mu     sync.Mutex
	slugs  []string
	tokens []string
}

func (g *scriptedGenerator) NewSlug() (string, error) {
	return g.next(&g.slugs)
}

func (g *scriptedGenerator) NewAccessToken() (string, error) {
	return g.next(&g.tokens)
}

func (g *scriptedGenerator) next(list *[]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(*list) == 0 {
		return "", errors.New("script exhausted")
	}
	v := (*list)[0]
	if len(*list) > 1 {
		*list = (*list)[1:]
	}
	return v, nil
}

func newStudentService(t *testing.T, ids ident.Generator) (*service.StudentService, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	if ids == nil {
		ids = ident.NewGenerator()
	}
	svc := service.NewStudentService(
		repos.Student,
		ids,
		qr.NewEncoder(),
		service.NewLinks("https://jornadas.example/"),
		[]string{"isep.ipp.pt"},
		1024,
	)
	return svc, testDB
}

func TestStudentService_Register(t *testing.T) {
	studentService, _ := newStudentService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    service.RegisterStudentInput
		wantKind domain.ErrorKind
		wantMsg  string
	}{
		{
			name: "successful registration",
			input: service.RegisterStudentInput{
				Name:               "Ana Silva",
				InstitutionalEmail: "1200001@ISEP.ipp.pt",
				LinkedinURL:        "linkedin.com/in/anasilva",
			},
		},
		{
			name: "successful registration with cv",
			input: service.RegisterStudentInput{
				Name:               "Rui Costa",
				InstitutionalEmail: "1200002@isep.ipp.pt",
				CV: &service.CVUpload{
					Data:        testutil.SamplePDF,
					ContentType: "application/pdf",
					FileName:    "rui.pdf",
				},
			},
		},
		{
			name: "email outside allowed domains",
			input: service.RegisterStudentInput{
				Name:               "Ana Silva",
				InstitutionalEmail: "x@notallowed.com",
			},
			wantKind: domain.KindValidation,
			wantMsg:  "O email deve pertencer a: isep.ipp.pt",
		},
		{
			name: "missing name",
			input: service.RegisterStudentInput{
				Name:               "   ",
				InstitutionalEmail: "1200003@isep.ipp.pt",
			},
			wantKind: domain.KindValidation,
			wantMsg:  domain.MsgStudentRequiredFields,
		},
		{
			name: "missing email",
			input: service.RegisterStudentInput{
				Name: "Ana Silva",
			},
			wantKind: domain.KindValidation,
			wantMsg:  domain.MsgStudentRequiredFields,
		},
		{
			name: "invalid linkedin",
			input: service.RegisterStudentInput{
				Name:               "Ana Silva",
				InstitutionalEmail: "1200004@isep.ipp.pt",
				LinkedinURL:        "ftp://linkedin.com/in/ana",
			},
			wantKind: domain.KindValidation,
			wantMsg:  domain.MsgInvalidLinkedin,
		},
		{
			name: "cv declared as pdf but is not",
			input: service.RegisterStudentInput{
				Name:               "Ana Silva",
				InstitutionalEmail: "1200005@isep.ipp.pt",
				CV: &service.CVUpload{
					Data:        []byte("plain text pretending"),
					ContentType: "application/pdf",
					FileName:    "cv.pdf",
				},
			},
			wantKind: domain.KindValidation,
			wantMsg:  domain.MsgCVMustBePDF,
		},
		{
			name: "cv with wrong content type",
			input: service.RegisterStudentInput{
				Name:               "Ana Silva",
				InstitutionalEmail: "1200006@isep.ipp.pt",
				CV: &service.CVUpload{
					Data:        testutil.SamplePDF,
					ContentType: "image/png",
					FileName:    "cv.png",
				},
			},
			wantKind: domain.KindValidation,
			wantMsg:  domain.MsgCVMustBePDF,
		},
		{
			name: "cv too large",
			input: service.RegisterStudentInput{
				Name:               "Ana Silva",
				InstitutionalEmail: "1200007@isep.ipp.pt",
				CV: &service.CVUpload{
					Data:        append([]byte("%PDF-1.4\n"), make([]byte, 2048)...),
					ContentType: "application/pdf",
					FileName:    "big.pdf",
				},
			},
			wantKind: domain.KindValidation,
			wantMsg:  domain.MsgCVTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := studentService.Register(ctx, tt.input)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				assert.Equal(t, tt.wantMsg, domain.MessageOf(err))
				return
			}

			require.NoError(t, err)
			assert.True(t, ident.IsSlug(reg.Student.Slug))
			assert.Len(t, reg.Student.Slug, ident.SlugLength)
			assert.Len(t, reg.Student.AccessToken, ident.AccessTokenLength)
			assert.Equal(t, "https://jornadas.example/p/"+reg.Student.Slug, reg.PublicProfileURL)
			assert.Contains(t, reg.DashboardURL, "/student/"+reg.Student.Slug+"/dashboard?token=")
			assert.True(t, strings.HasPrefix(reg.QRCodeDataURL, "data:image/png;base64,"))
			assert.Equal(t, strings.ToLower(tt.input.InstitutionalEmail), reg.Student.InstitutionalEmail)
			assert.Equal(t, tt.input.CV != nil, reg.Student.HasCV())
		})
	}
}

func TestStudentService_Register_ConcurrentIdentifiersAreUnique(t *testing.T) {
	studentService, _ := newStudentService(t, nil)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	regs := make([]*service.Registration, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i], errs[i] = studentService.Register(ctx, service.RegisterStudentInput{
				Name:               "Same Name",
				InstitutionalEmail: "same@isep.ipp.pt",
			})
		}(i)
	}
	wg.Wait()

	slugs := make(map[string]bool)
	tokens := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		slugs[regs[i].Student.Slug] = true
		tokens[regs[i].Student.AccessToken] = true
	}
	assert.Len(t, slugs, n)
	assert.Len(t, tokens, n)
}

func TestStudentService_Register_RetriesOnCollision(t *testing.T) {
	ids := &scriptedGenerator{
		slugs:  []string{"taken_slug", "free_slug"},
		tokens: []string{"token-a-00000000000000000000000", "token-b-00000000000000000000000"},
	}
	studentService, testDB := newStudentService(t, ids)
	ctx := context.Background()

	testutil.NewStudentBuilder().WithSlug("taken_slug").Build(t, testDB.DB)

	reg, err := studentService.Register(ctx, service.RegisterStudentInput{
		Name:               "Ana Silva",
		InstitutionalEmail: "ana@isep.ipp.pt",
	})
	require.NoError(t, err)
	assert.Equal(t, "free_slug", reg.Student.Slug)
	assert.Equal(t, "token-b-00000000000000000000000", reg.Student.AccessToken)
}

func TestStudentService_Register_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ids := &scriptedGenerator{
		slugs:  []string{"taken_slug"},
		tokens: []string{"token-c-00000000000000000000000"},
	}
	studentService, testDB := newStudentService(t, ids)
	ctx := context.Background()

	testutil.NewStudentBuilder().WithSlug("taken_slug").Build(t, testDB.DB)

	_, err := studentService.Register(ctx, service.RegisterStudentInput{
		Name:               "Ana Silva",
		InstitutionalEmail: "ana@isep.ipp.pt",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, domain.MsgInternal, domain.MessageOf(err))
}

func TestStudentService_GetCV(t *testing.T) {
	studentService, testDB := newStudentService(t, nil)
	ctx := context.Background()

	withCV := testutil.NewStudentBuilder().WithName("Ana Silva").WithCV(testutil.SamplePDF).Build(t, testDB.DB)
	withoutCV := testutil.NewStudentBuilder().Build(t, testDB.DB)

	cv, name, err := studentService.GetCV(ctx, withCV.Slug)
	require.NoError(t, err)
	assert.Equal(t, testutil.SamplePDF, cv.Data)
	assert.Equal(t, "cv.pdf", name)

	_, _, err = studentService.GetCV(ctx, withoutCV.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.MsgCVNotFound, domain.MessageOf(err))

	_, _, err = studentService.GetCV(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormalizeLinkedinURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "linkedin.com/in/ana", want: "https://linkedin.com/in/ana"},
		{in: "http://www.linkedin.com/in/ana", want: "http://www.linkedin.com/in/ana"},
		{in: "  https://linkedin.com/in/ana  ", want: "https://linkedin.com/in/ana"},
		{in: "javascript://alert(1)", wantErr: true},
		{in: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := service.NormalizeLinkedinURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
