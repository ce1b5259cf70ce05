package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// ── ficha del taller ──

type memCompanyRepo struct {
	info    *entity.CompanyInfo
	creates int
}

func (r *memCompanyRepo) Get(context.Context) (*entity.CompanyInfo, error) {
	if r.info == nil {
		return nil, nil
	}
	cp := *r.info
	return &cp, nil
}

func (r *memCompanyRepo) Create(_ context.Context, info *entity.CompanyInfo) error {
	cp := *info
	r.info = &cp
	r.creates++
	return nil
}

func (r *memCompanyRepo) Update(_ context.Context, info *entity.CompanyInfo) error {
	cp := *info
	r.info = &cp
	return nil
}

type memStorage struct{ files map[string]string }

func (s *memStorage) Upload(_ context.Context, key string, _ []byte, contentType string) error {
	if s.files == nil {
		s.files = map[string]string{}
	}
	s.files[key] = contentType
	return nil
}

func (s *memStorage) Download(context.Context, string) ([]byte, error) { return nil, nil }

func (s *memStorage) URL(_ context.Context, key string) (string, error) {
	return "http://storage.test/" + key, nil
}

func strPtr(s string) *string { return &s }

func TestCompany_GetCreaConValoresPorDefecto(t *testing.T) {
	repo := &memCompanyRepo{}
	uc := usecase.NewCompanyUseCase(repo, nil)

	got, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCompanyName, got.Name)
	assert.Equal(t, entity.DefaultCompanyCNPJ, got.CNPJ)

	_, err = uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates, "la ficha se crea una sola vez")
}

func TestCompany_UpdateSoloCamposEnviados(t *testing.T) {
	repo := &memCompanyRepo{}
	uc := usecase.NewCompanyUseCase(repo, nil)

	got, err := uc.Update(context.Background(), dto.UpdateCompanyRequest{Name: strPtr("Oficina do Zé"), Phone: strPtr("(21) 3333-4444")})
	require.NoError(t, err)
	assert.Equal(t, "Oficina do Zé", got.Name)
	assert.Equal(t, "(21) 3333-4444", got.Phone)
	assert.Equal(t, entity.DefaultCompanyAddress, got.Address)

	_, err = uc.Update(context.Background(), dto.UpdateCompanyRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompany_UploadLogoYPix(t *testing.T) {
	repo := &memCompanyRepo{}
	storage := &memStorage{}
	uc := usecase.NewCompanyUseCase(repo, storage)

	got, err := uc.UploadLogo(context.Background(), "marca nova.png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, "logo_marca_nova.png", repo.info.LogoKey)
	assert.Equal(t, "image/png", storage.files["logo_marca_nova.png"])
	assert.Equal(t, "http://storage.test/logo_marca_nova.png", got.LogoURL)

	_, err = uc.UploadPixQR(context.Background(), "qr.jpg", []byte{0xff})
	require.NoError(t, err)
	assert.Equal(t, "pix_qr.jpg", repo.info.PixQRKey)

	_, err = uc.UploadLogo(context.Background(), "logo.svg", []byte("<svg/>"))
	assert.ErrorIs(t, err, domain.ErrFileNotAllowed)
}

// ── clientes y vehículos ──

type mockClients struct{ mock.Mock }

func (m *mockClients) Create(ctx context.Context, c *entity.Client) error { return m.Called(ctx, c).Error(0) }
func (m *mockClients) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}
func (m *mockClients) GetByName(ctx context.Context, name string) (*entity.Client, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}
func (m *mockClients) List(ctx context.Context) ([]*entity.Client, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]*entity.Client)
	return l, args.Error(1)
}
func (m *mockClients) Search(ctx context.Context, term string, limit int) ([]*entity.Client, error) {
	args := m.Called(ctx, term, limit)
	l, _ := args.Get(0).([]*entity.Client)
	return l, args.Error(1)
}
func (m *mockClients) Update(ctx context.Context, c *entity.Client) error { return m.Called(ctx, c).Error(0) }

type mockVehicles struct{ mock.Mock }

func (m *mockVehicles) Create(ctx context.Context, v *entity.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVehicles) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*entity.Vehicle)
	return v, args.Error(1)
}
func (m *mockVehicles) ListByClient(ctx context.Context, clientID string) ([]*entity.Vehicle, error) {
	args := m.Called(ctx, clientID)
	l, _ := args.Get(0).([]*entity.Vehicle)
	return l, args.Error(1)
}

func TestClient_SearchLimitaYConVehiculos(t *testing.T) {
	clients := &mockClients{}
	clients.On("Search", mock.Anything, "mar", usecase.AutocompleteLimit).Return([]*entity.Client{
		{ID: "c-1", Name: "Maria", Vehicles: []*entity.Vehicle{{ID: "v-1", LicensePlate: "ABC1D23", CarModel: "Gol"}}},
	}, nil)
	uc := usecase.NewClientUseCase(clients, &mockVehicles{})

	got, err := uc.Search(context.Background(), " mar ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Vehicles, 1)
	assert.Equal(t, "ABC1D23", got[0].Vehicles[0].LicensePlate)

	empty, err := uc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, empty)
	clients.AssertExpectations(t)
}

func TestClient_AddVehicle(t *testing.T) {
	clients := &mockClients{}
	vehicles := &mockVehicles{}
	clients.On("GetByID", mock.Anything, "c-1").Return(&entity.Client{ID: "c-1"}, nil)
	clients.On("GetByID", mock.Anything, "c-x").Return(nil, nil)
	vehicles.On("ListByClient", mock.Anything, "c-1").Return([]*entity.Vehicle{{LicensePlate: "ABC1D23"}}, nil)
	vehicles.On("Create", mock.Anything, mock.MatchedBy(func(v *entity.Vehicle) bool {
		return v.LicensePlate == "XYZ9A88" && v.ClientID == "c-1"
	})).Return(nil)
	uc := usecase.NewClientUseCase(clients, vehicles)

	got, err := uc.AddVehicle(context.Background(), dto.CreateVehicleRequest{ClientID: "c-1", LicensePlate: "xyz9a88", CarModel: "Onix"})
	require.NoError(t, err)
	assert.Equal(t, "XYZ9A88", got.LicensePlate)

	_, err = uc.AddVehicle(context.Background(), dto.CreateVehicleRequest{ClientID: "c-1", LicensePlate: "abc1d23"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.AddVehicle(context.Background(), dto.CreateVehicleRequest{ClientID: "c-x", LicensePlate: "AAA0000"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AddVehicle(context.Background(), dto.CreateVehicleRequest{ClientID: "c-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
