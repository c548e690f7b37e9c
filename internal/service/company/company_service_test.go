package company

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/company"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompanies struct {
	byID map[string]company.Company
}

func (f *fakeCompanies) GetByID(_ context.Context, id string) (company.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanies) Update(_ context.Context, id string, req company.UpdateCompanyRequest) error {
	c, ok := f.byID[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		c.Email = &email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.LogoURL != nil {
		c.LogoURL = req.LogoURL
	}
	c.UpdatedAt = time.Now()
	f.byID[id] = c
	return nil
}

// memoryStorage records uploads in memory.
type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) Upload(_ context.Context, r io.Reader, path string, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.files[path] = data
	return path, nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://cdn.test/" + path, nil
}

func newTestCompanyService() (company.CompanyService, *fakeCompanies, *memoryStorage) {
	repo := &fakeCompanies{byID: map[string]company.Company{
		"c-1": {ID: "c-1", Name: "Green Haul", Slug: "green-haul"},
	}}
	store := &memoryStorage{files: map[string][]byte{}}
	return NewCompanyService(repo, file.NewFileService(store)), repo, store
}

func staff(role user.Role) auth.Principal {
	return auth.Principal{Kind: auth.KindUser, ID: "u-1", CompanyID: "c-1", Role: role}
}

func TestCompanyService_GetMine(t *testing.T) {
	svc, _, _ := newTestCompanyService()

	resp, err := svc.GetMine(context.Background(), staff(user.RoleViewer))
	require.NoError(t, err)
	assert.Equal(t, "Green Haul", resp.Name)

	_, err = svc.GetMine(context.Background(), auth.Principal{Kind: auth.KindCustomer, CompanyID: "c-1"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestCompanyService_UpdateMine(t *testing.T) {
	svc, _, _ := newTestCompanyService()
	ctx := context.Background()
	name := "  Green Haul Waste Co  "

	resp, err := svc.UpdateMine(ctx, staff(user.RoleOwner), company.UpdateCompanyRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Green Haul Waste Co", resp.Name)

	// only owners manage the company profile
	_, err = svc.UpdateMine(ctx, staff(user.RoleAdmin), company.UpdateCompanyRequest{Name: &name})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	empty := " "
	_, err = svc.UpdateMine(ctx, staff(user.RoleOwner), company.UpdateCompanyRequest{Name: &empty})
	assert.Error(t, err)
}

func TestCompanyService_UploadLogo(t *testing.T) {
	svc, repo, store := newTestCompanyService()

	img := image.NewRGBA(image.Rect(0, 0, 1024, 256))
	for x := 0; x < 1024; x++ {
		img.Set(x, x%256, color.RGBA{R: 20, G: 160, B: 60, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	resp, err := svc.UploadLogo(context.Background(), staff(user.RoleOwner), &buf, "Logo.PNG")
	require.NoError(t, err)
	require.NotNil(t, resp.LogoURL)
	assert.True(t, strings.HasPrefix(*resp.LogoURL, "https://cdn.test/logos/c-1/"))
	assert.Equal(t, resp.LogoURL, repo.byID["c-1"].LogoURL)
	require.Len(t, store.files, 1)

	for _, data := range store.files {
		stored, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 512, stored.Bounds().Dx())
		assert.Equal(t, 128, stored.Bounds().Dy())
	}
}

func TestCompanyService_UploadLogo_RejectsNonImage(t *testing.T) {
	svc, _, _ := newTestCompanyService()

	_, err := svc.UploadLogo(context.Background(), staff(user.RoleOwner), strings.NewReader("%PDF-1.4"), "logo.pdf")
	assert.ErrorIs(t, err, file.ErrUnsupportedImage)

	_, err = svc.UploadLogo(context.Background(), staff(user.RoleOwner), strings.NewReader("not a png"), "logo.png")
	assert.ErrorIs(t, err, file.ErrUnsupportedImage)
}
