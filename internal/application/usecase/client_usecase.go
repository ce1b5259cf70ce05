package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

// AutocompleteLimit máximo de sugerencias en los buscadores.
const AutocompleteLimit = 10

// ClientUseCase clientes y sus vehículos.
type ClientUseCase struct {
	clients  repository.ClientRepository
	vehicles repository.VehicleRepository
}

// NewClientUseCase construye el caso de uso con los puertos de persistencia.
func NewClientUseCase(clients repository.ClientRepository, vehicles repository.VehicleRepository) *ClientUseCase {
	return &ClientUseCase{clients: clients, vehicles: vehicles}
}

// List clientes ordenados por nombre.
func (uc *ClientUseCase) List(ctx context.Context) ([]dto.ClientResponse, error) {
	list, err := uc.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	return toClientResponses(list), nil
}

// Search autocompletado por nombre (hasta AutocompleteLimit) con vehículos.
func (uc *ClientUseCase) Search(ctx context.Context, term string) ([]dto.ClientResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.ClientResponse{}, nil
	}
	list, err := uc.clients.Search(ctx, term, AutocompleteLimit)
	if err != nil {
		return nil, err
	}
	return toClientResponses(list), nil
}

// ListVehicles vehículos de un cliente.
func (uc *ClientUseCase) ListVehicles(ctx context.Context, clientID string) ([]dto.VehicleResponse, error) {
	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.vehicles.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVehicleResponse(v))
	}
	return out, nil
}

// AddVehicle registra un vehículo para un cliente existente.
func (uc *ClientUseCase) AddVehicle(ctx context.Context, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	plate := strings.ToUpper(strings.TrimSpace(in.LicensePlate))
	if in.ClientID == "" || plate == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.vehicles.ListByClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	for _, v := range existing {
		if strings.EqualFold(v.LicensePlate, plate) {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:           uuid.New().String(),
		ClientID:     in.ClientID,
		LicensePlate: plate,
		CarModel:     strings.TrimSpace(in.CarModel),
		Year:         in.Year,
		Color:        in.Color,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	resp := toVehicleResponse(v)
	return &resp, nil
}

func toClientResponses(list []*entity.Client) []dto.ClientResponse {
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		r := dto.ClientResponse{ID: c.ID, Name: c.Name, Phone: c.Phone}
		for _, v := range c.Vehicles {
			r.Vehicles = append(r.Vehicles, toVehicleResponse(v))
		}
		out = append(out, r)
	}
	return out
}

func toVehicleResponse(v *entity.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:           v.ID,
		LicensePlate: v.LicensePlate,
		CarModel:     v.CarModel,
		Year:         v.Year,
		Color:        v.Color,
	}
}
