package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

// CompanyUseCase ficha única del taller: datos impresos en la OS, logo y QR PIX.
type CompanyUseCase struct {
	repo    repository.CompanyInfoRepository
	storage appos.FileStorage
	mu      sync.Mutex // evita crear dos fichas en la primera lectura concurrente
}

// NewCompanyUseCase construye el caso de uso. storage puede ser nil (sin uploads).
func NewCompanyUseCase(repo repository.CompanyInfoRepository, storage appos.FileStorage) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, storage: storage}
}

// GetOrCreate devuelve la ficha; si no existe la crea con los valores por defecto.
func (uc *CompanyUseCase) GetOrCreate(ctx context.Context) (*entity.CompanyInfo, error) {
	info, err := uc.repo.Get(ctx)
	if err != nil || info != nil {
		return info, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if info, err = uc.repo.Get(ctx); err != nil || info != nil {
		return info, err
	}
	info = entity.NewDefaultCompanyInfo(uuid.New().String())
	if err := uc.repo.Create(ctx, info); err != nil {
		// Otra instancia de la API la creó primero.
		if errors.Is(err, domain.ErrDuplicate) {
			return uc.repo.Get(ctx)
		}
		return nil, err
	}
	return info, nil
}

// Get ficha con URLs de logo y QR.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	info, err := uc.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, info), nil
}

// Update modifica solo los campos enviados.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	info, err := uc.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		info.Name = name
	}
	if in.Phone != nil {
		info.Phone = *in.Phone
	}
	if in.Address != nil {
		info.Address = *in.Address
	}
	if in.CNPJ != nil {
		info.CNPJ = *in.CNPJ
	}
	if err := uc.repo.Update(ctx, info); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, info), nil
}

// UploadLogo guarda el logo como logo_{archivo}.
func (uc *CompanyUseCase) UploadLogo(ctx context.Context, filename string, data []byte) (*dto.CompanyResponse, error) {
	return uc.upload(ctx, "logo_", filename, data, func(info *entity.CompanyInfo, key string) { info.LogoKey = key })
}

// UploadPixQR guarda el QR PIX como pix_{archivo}.
func (uc *CompanyUseCase) UploadPixQR(ctx context.Context, filename string, data []byte) (*dto.CompanyResponse, error) {
	return uc.upload(ctx, "pix_", filename, data, func(info *entity.CompanyInfo, key string) { info.PixQRKey = key })
}

func (uc *CompanyUseCase) upload(ctx context.Context, prefix, filename string, data []byte, set func(*entity.CompanyInfo, string)) (*dto.CompanyResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrInvalidInput
	}
	if !appos.AllowedAttachment(filename) {
		return nil, domain.ErrFileNotAllowed
	}
	safe := appos.SecureFilename(prefix + filename)
	if len(data) == 0 {
		return nil, domain.ErrInvalidInput
	}
	info, err := uc.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.storage.Upload(ctx, safe, data, contentTypeFor(safe)); err != nil {
		return nil, err
	}
	set(info, safe)
	if err := uc.repo.Update(ctx, info); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, info), nil
}

func (uc *CompanyUseCase) toResponse(ctx context.Context, info *entity.CompanyInfo) *dto.CompanyResponse {
	resp := &dto.CompanyResponse{
		Name:    info.Name,
		Phone:   info.Phone,
		Address: info.Address,
		CNPJ:    info.CNPJ,
	}
	if uc.storage != nil {
		if info.LogoKey != "" {
			resp.LogoURL, _ = uc.storage.URL(ctx, info.LogoKey)
		}
		if info.PixQRKey != "" {
			resp.PixQRURL, _ = uc.storage.URL(ctx, info.PixQRKey)
		}
	}
	return resp
}
