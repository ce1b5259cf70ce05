// Package serviceorder casos de uso de la orden de servicio: alta y edición con cálculo de
// totales, numeración atómica por año, historial, adjuntos, PDF y CSV.
package serviceorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
	"github.com/jhoicas/OrdemServico-api/pkg/logger"
)

// DefaultMaxAttempts intentos de alta cuando el número de OS choca con uno ya emitido.
const DefaultMaxAttempts = 5

// Deps dependencias del caso de uso. Storage, Publisher, Metrics y Cache son opcionales.
type Deps struct {
	TxRunner    OrderTxRunner
	Orders      repository.ServiceOrderRepository
	Storage     FileStorage
	Publisher   EventPublisher
	Metrics     Metrics
	Cache       CacheInvalidator
	Log         *logger.Logger
	MaxAttempts int
	Now         func() time.Time
}

// UseCase alta, edición y consulta de órdenes de servicio.
type UseCase struct {
	tx          OrderTxRunner
	orders      repository.ServiceOrderRepository
	storage     FileStorage
	publisher   EventPublisher
	metrics     Metrics
	cache       CacheInvalidator
	log         *logger.Logger
	maxAttempts int
	now         func() time.Time
}

// NewUseCase construye el caso de uso aplicando valores por defecto.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:          d.TxRunner,
		orders:      d.Orders,
		storage:     d.Storage,
		publisher:   d.Publisher,
		metrics:     d.Metrics,
		cache:       d.Cache,
		log:         d.Log,
		maxAttempts: d.MaxAttempts,
		now:         d.Now,
	}
	if uc.maxAttempts <= 0 {
		uc.maxAttempts = DefaultMaxAttempts
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// Create registra una OS nueva: cliente (por nombre), vehículo, ítems, totales y número.
func (uc *UseCase) Create(ctx context.Context, professionalID string, in dto.SaveOrderRequest) (*dto.OrderResponse, error) {
	if professionalID == "" || strings.TrimSpace(in.ClientName) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateAmounts(in); err != nil {
		return nil, err
	}
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var order *entity.ServiceOrder

	err = uc.withNumberRetry(ctx, func() error {
		return uc.tx.RunOrder(ctx, func(
			clientRepo repository.ClientRepository,
			vehicleRepo repository.VehicleRepository,
			orderRepo repository.ServiceOrderRepository,
		) error {
			client, err := upsertClient(ctx, clientRepo, in.ClientName, in.ClientPhone, now)
			if err != nil {
				return err
			}
			vehicleID, err := resolveVehicle(ctx, vehicleRepo, client.ID, in, now)
			if err != nil {
				return err
			}
			number, err := AllocateNumber(ctx, orderRepo, now.Year())
			if err != nil {
				return err
			}

			order = &entity.ServiceOrder{
				ID:                   uuid.New().String(),
				Number:               number,
				IssueDate:            dateOnly(now),
				ProfessionalID:       professionalID,
				ClientID:             client.ID,
				VehicleID:            vehicleID,
				Status:               status,
				PaymentMethod:        in.PaymentMethod,
				InternalObservations: in.InternalObservations,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			applyFinancials(order, in)
			order.Items = buildItems(order.ID, in.Items, now)
			order.RecalculateTotals()

			if err := orderRepo.Create(ctx, order); err != nil {
				return err
			}
			return orderRepo.ReplaceItems(ctx, order.ID, order.Items)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("os_number", order.Number).
		Str("final_total", order.FinalTotal.StringFixed(2)).
		Msg("orden de servicio creada")
	if uc.metrics != nil {
		uc.metrics.OrderCreated("form")
	}
	uc.afterWrite(ctx, order, func(p EventPublisher) error { return p.PublishOrderCreated(ctx, order) })

	return uc.Get(ctx, order.ID)
}

// Update edita la OS: datos del cliente, campos financieros, estado, pago e ítems.
// Los ítems se reemplazan completos y los totales se recalculan.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.SaveOrderRequest) (*dto.OrderResponse, error) {
	if id == "" || strings.TrimSpace(in.ClientName) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateAmounts(in); err != nil {
		return nil, err
	}
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var order *entity.ServiceOrder
	var becamePaid bool

	err = uc.tx.RunOrder(ctx, func(
		clientRepo repository.ClientRepository,
		vehicleRepo repository.VehicleRepository,
		orderRepo repository.ServiceOrderRepository,
	) error {
		var err error
		order, err = orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		client, err := clientRepo.GetByID(ctx, order.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		client.Name = strings.TrimSpace(in.ClientName)
		client.Phone = in.ClientPhone
		client.UpdatedAt = now
		if err := clientRepo.Update(ctx, client); err != nil {
			return err
		}

		if in.VehicleID != "" || in.LicensePlate != "" || in.CarModel != "" {
			vehicleID, err := resolveVehicle(ctx, vehicleRepo, client.ID, in, now)
			if err != nil {
				return err
			}
			order.VehicleID = vehicleID
		}

		wasPaid := order.IsPaid
		applyFinancials(order, in)
		order.Status = status
		order.PaymentMethod = in.PaymentMethod
		order.InternalObservations = in.InternalObservations
		order.SetPaid(in.IsPaid, now)
		order.UpdatedAt = now
		becamePaid = !wasPaid && order.IsPaid

		order.Items = buildItems(order.ID, in.Items, now)
		order.RecalculateTotals()

		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		return orderRepo.ReplaceItems(ctx, order.ID, order.Items)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("os_number", order.Number).
		Bool("is_paid", order.IsPaid).
		Msg("orden de servicio actualizada")
	uc.afterWrite(ctx, order, func(p EventPublisher) error {
		if becamePaid {
			return p.PublishOrderPaid(ctx, order)
		}
		return p.PublishOrderUpdated(ctx, order)
	})

	return uc.Get(ctx, order.ID)
}

// Get devuelve la OS con cliente, vehículo, profesional e ítems.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	details, err := uc.orders.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orders.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	details.Order.Items = items
	resp := ToOrderResponse(details)
	if details.Order.ImageKey != "" && uc.storage != nil {
		if url, err := uc.storage.URL(ctx, details.Order.ImageKey); err == nil {
			resp.ImageURL = url
		} else {
			uc.log.Warn().Err(err).Str("key", details.Order.ImageKey).Msg("url de imagen de la OS")
		}
	}
	return &resp, nil
}

// History lista órdenes con filtros (más recientes primero).
func (uc *UseCase) History(ctx context.Context, q dto.OrderHistoryQuery) ([]dto.OrderResponse, error) {
	f := repository.OrderFilter{
		Search: strings.TrimSpace(q.Search),
		Status: q.Status,
	}
	switch q.Payment {
	case "paid":
		paid := true
		f.Paid = &paid
	case "unpaid":
		paid := false
		f.Paid = &paid
	}
	var err error
	if f.DateFrom, err = ParseDate(q.DateFrom); err != nil {
		return nil, err
	}
	if f.DateTo, err = ParseDate(q.DateTo); err != nil {
		return nil, err
	}
	list, err := uc.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToOrderResponse(d))
	}
	return out, nil
}

// withNumberRetry repite fn mientras el alta choque con un número ya emitido.
// Cada intento abre una transacción nueva y vuelve a leer el máximo del año.
func (uc *UseCase) withNumberRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrOrderNumberConflict) {
			return err
		}
		if uc.metrics != nil {
			uc.metrics.OrderNumberConflict()
		}
		uc.log.Warn().Int("attempt", attempt).Msg("número de OS en conflicto, reintentando")
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

// afterWrite tareas posteriores al commit. Sus fallos se registran pero no revierten la OS.
func (uc *UseCase) afterWrite(ctx context.Context, order *entity.ServiceOrder, publish func(EventPublisher) error) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("invalidar cache del dashboard")
		}
	}
	if uc.publisher != nil {
		if err := publish(uc.publisher); err != nil {
			uc.log.Error().Err(err).Str("os_number", order.Number).Msg("publicar evento de OS")
		}
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func normalizeStatus(s string) (string, error) {
	if s == "" {
		return entity.OrderStatusInProgress, nil
	}
	if !entity.ValidOrderStatus(s) {
		return "", domain.ErrInvalidInput
	}
	return s, nil
}

// validateAmounts rechaza montos y cantidades negativos. El recargo no entra: se limita a [0, 5].
func validateAmounts(in dto.SaveOrderRequest) error {
	for field, v := range map[string]decimal.Decimal{
		"labor_total":    in.LaborTotal,
		"general_budget": in.GeneralBudget,
		"discount_value": in.DiscountValue,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s negativo", domain.ErrInvalidInput, field)
		}
	}
	for i, it := range in.Items {
		if it.Quantity != nil && it.Quantity.IsNegative() {
			return fmt.Errorf("%w: ítem %d con cantidad negativa", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: ítem %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func applyFinancials(o *entity.ServiceOrder, in dto.SaveOrderRequest) {
	o.LaborTotal = in.LaborTotal
	o.GeneralBudget = in.GeneralBudget
	o.DiscountType = serviceorder.ParseDiscountType(in.DiscountType)
	o.DiscountValue = in.DiscountValue
	o.SurchargePercentage = serviceorder.ClampSurcharge(in.SurchargePercentage)
}

// buildItems arma las líneas: nombre vacío se descarta, cantidad vacía = 1, precio vacío = 0.
func buildItems(orderID string, in []dto.OrderItemRequest, now time.Time) []*entity.ServiceOrderItem {
	items := make([]*entity.ServiceOrderItem, 0, len(in))
	for _, it := range in {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		qty := decimal.NewFromInt(1)
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		price := decimal.Zero
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		items = append(items, &entity.ServiceOrderItem{
			ID:             uuid.New().String(),
			ServiceOrderID: orderID,
			Name:           name,
			Description:    it.Description,
			Quantity:       qty,
			UnitPrice:      price,
			TotalPrice:     serviceorder.ItemTotal(qty, price),
			CreatedAt:      now,
		})
	}
	return items
}

// upsertClient busca el cliente por nombre; si no existe lo crea, si existe actualiza el teléfono informado.
func upsertClient(ctx context.Context, repo repository.ClientRepository, name, phone string, now time.Time) (*entity.Client, error) {
	name = strings.TrimSpace(name)
	client, err := repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &entity.Client{
			ID:        uuid.New().String(),
			Name:      name,
			Phone:     phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, client); err != nil {
			return nil, err
		}
		return client, nil
	}
	if phone != "" {
		client.Phone = phone
	}
	client.UpdatedAt = now
	if err := repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// resolveVehicle usa el vehículo indicado (debe ser del cliente), el del cliente con la misma
// placa, o registra uno nuevo con placa/modelo.
func resolveVehicle(ctx context.Context, repo repository.VehicleRepository, clientID string, in dto.SaveOrderRequest, now time.Time) (*string, error) {
	if in.VehicleID != "" {
		v, err := repo.GetByID(ctx, in.VehicleID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, domain.ErrNotFound
		}
		if v.ClientID != clientID {
			return nil, domain.ErrInvalidInput
		}
		return &v.ID, nil
	}
	plate := strings.ToUpper(strings.TrimSpace(in.LicensePlate))
	model := strings.TrimSpace(in.CarModel)
	if plate == "" && model == "" {
		return nil, nil
	}
	if plate != "" {
		existing, err := repo.ListByClient(ctx, clientID)
		if err != nil {
			return nil, err
		}
		for _, v := range existing {
			if strings.EqualFold(v.LicensePlate, plate) {
				return &v.ID, nil
			}
		}
	}
	v := &entity.Vehicle{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		LicensePlate: plate,
		CarModel:     model,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return &v.ID, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate interpreta YYYY-MM-DD; vacío devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
