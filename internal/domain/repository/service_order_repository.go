package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// OrderFilter filtros del historial y de los reportes. Campos vacíos no filtran.
type OrderFilter struct {
	Search   string     // nombre del cliente, placa o número de OS (ILIKE)
	Status   string
	Paid     *bool
	ClientID string
	DateFrom *time.Time // sobre issue_date, inclusivo
	DateTo   *time.Time
}

// OrderStats contadores del dashboard.
type OrderStats struct {
	TotalOrders   int
	PendingOrders int // estado "Em andamento"
	UnpaidOrders  int
	TodayRevenue  decimal.Decimal // suma de final_total pagado creado hoy
}

// OrderDetails orden con los datos relacionados que necesitan PDF, CSV y vistas.
type OrderDetails struct {
	Order        *entity.ServiceOrder
	Client       *entity.Client
	Vehicle      *entity.Vehicle // nil si la OS no tiene vehículo
	Professional *entity.User
}

// ServiceOrderRepository define el puerto de persistencia para ServiceOrder e ítems.
type ServiceOrderRepository interface {
	// Create inserta la cabecera. Devuelve domain.ErrOrderNumberConflict si el número ya existe.
	Create(ctx context.Context, order *entity.ServiceOrder) error
	// Update reescribe la OS salvo número, emisión, profesional e image_key.
	Update(ctx context.Context, order *entity.ServiceOrder) error
	// SetImageKey cambia solo la clave del adjunto.
	SetImageKey(ctx context.Context, id, key string, at time.Time) error
	GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error)
	GetDetails(ctx context.Context, id string) (*OrderDetails, error)
	// ReplaceItems borra los ítems de la OS e inserta los nuevos.
	ReplaceItems(ctx context.Context, orderID string, items []*entity.ServiceOrderItem) error
	ListItems(ctx context.Context, orderID string) ([]*entity.ServiceOrderItem, error)
	List(ctx context.Context, f OrderFilter) ([]*OrderDetails, error)
	Recent(ctx context.Context, limit int) ([]*OrderDetails, error)
	Stats(ctx context.Context, today time.Time) (*OrderStats, error)
	// ListNumbersByYear números emitidos con prefijo OS-AAAA-.
	ListNumbersByYear(ctx context.Context, year int) ([]string, error)
	// LockYear serializa la numeración del año hasta el fin de la transacción en curso.
	LockYear(ctx context.Context, year int) error
}
