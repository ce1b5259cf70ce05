package serviceorder

import (
	"context"
	"io"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

// OrderTxRunner ejecuta fn dentro de una transacción con repos atados a la tx.
// La numeración de la OS y el INSERT de la cabecera deben ocurrir en la misma llamada.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		vehicleRepo repository.VehicleRepository,
		orderRepo repository.ServiceOrderRepository,
	) error) error
}

// FileStorage almacenamiento de adjuntos (foto de la OS, logo, QR PIX).
type FileStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	// URL devuelve un enlace temporal de descarga.
	URL(ctx context.Context, key string) (string, error)
}

// EventPublisher notifica cambios de la OS a otros sistemas.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *entity.ServiceOrder) error
	PublishOrderUpdated(ctx context.Context, order *entity.ServiceOrder) error
	PublishOrderPaid(ctx context.Context, order *entity.ServiceOrder) error
}

// Metrics contadores de negocio.
type Metrics interface {
	OrderCreated(source string)
	OrderNumberConflict()
}

// CacheInvalidator descarta datos derivados (dashboard) tras escribir una OS.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// PDFGenerator genera el documento imprimible de una OS.
type PDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, details *repository.OrderDetails, company *entity.CompanyInfo) ([]byte, error)
}

// CompanyProvider entrega la ficha del taller (la crea con valores por defecto si falta).
type CompanyProvider interface {
	GetOrCreate(ctx context.Context) (*entity.CompanyInfo, error)
}

// CSVCodec convierte filas de exportación/importación a CSV y viceversa.
type CSVCodec interface {
	Encode(w io.Writer, rows []ExportRow) error
	Decode(r io.Reader) ([]ImportRow, error)
}
