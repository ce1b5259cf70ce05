package serviceorder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

// ExportRow fila del CSV de exportación.
type ExportRow struct {
	Number        string
	IssueDate     time.Time
	ClientName    string
	ClientPhone   string
	LicensePlate  string
	CarModel      string
	Professional  string
	MaterialTotal decimal.Decimal
	LaborTotal    decimal.Decimal
	FinalTotal    decimal.Decimal
	Status        string
	IsPaid        bool
	PaymentMethod string
}

// ImportRow fila leída del CSV de importación. Los totales se toman tal cual.
type ImportRow struct {
	ClientName    string
	ClientPhone   string
	LicensePlate  string
	CarModel      string
	MaterialTotal decimal.Decimal
	LaborTotal    decimal.Decimal
	FinalTotal    decimal.Decimal
	Status        string
	PaymentMethod string
	IsPaid        bool
}

// DocumentsUseCase PDF de la OS y exportación/importación CSV.
type DocumentsUseCase struct {
	orders  *UseCase
	pdf     PDFGenerator
	company CompanyProvider
	csv     CSVCodec
}

// NewDocumentsUseCase comparte repos, tx y logger con el caso de uso de órdenes.
func NewDocumentsUseCase(orders *UseCase, pdf PDFGenerator, company CompanyProvider, csv CSVCodec) *DocumentsUseCase {
	return &DocumentsUseCase{orders: orders, pdf: pdf, company: company, csv: csv}
}

// OrderPDF genera el PDF de la OS. Devuelve el contenido y el nombre de archivo {numero}.pdf.
func (uc *DocumentsUseCase) OrderPDF(ctx context.Context, id string) ([]byte, string, error) {
	details, err := uc.orders.orders.GetDetails(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if details == nil {
		return nil, "", domain.ErrNotFound
	}
	items, err := uc.orders.orders.ListItems(ctx, id)
	if err != nil {
		return nil, "", err
	}
	details.Order.Items = items

	company, err := uc.company.GetOrCreate(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateOrderPDF(ctx, details, company)
	if err != nil {
		uc.orders.log.Error().Err(err).Str("os_number", details.Order.Number).Msg("generar PDF de OS")
		return nil, "", err
	}
	return data, details.Order.Number + ".pdf", nil
}

// ExportCSV exporta todas las órdenes. Nombre de archivo ordens_servico_AAAAMMDD.csv.
func (uc *DocumentsUseCase) ExportCSV(ctx context.Context) ([]byte, string, error) {
	list, err := uc.orders.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, "", err
	}
	rows := make([]ExportRow, 0, len(list))
	for _, d := range list {
		rows = append(rows, toExportRow(d))
	}
	var buf bytes.Buffer
	if err := uc.csv.Encode(&buf, rows); err != nil {
		return nil, "", err
	}
	name := "ordens_servico_" + uc.orders.now().Format("20060102") + ".csv"
	return buf.Bytes(), name, nil
}

// ImportCSV crea una OS por fila con número nuevo. Todas las filas entran o ninguna.
func (uc *DocumentsUseCase) ImportCSV(ctx context.Context, professionalID string, r io.Reader) (*dto.ImportResult, error) {
	if professionalID == "" {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.csv.Decode(r)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if strings.TrimSpace(row.ClientName) == "" {
			return nil, domain.ErrInvalidInput
		}
		if row.Status != "" && !entity.ValidOrderStatus(row.Status) {
			return nil, domain.ErrInvalidInput
		}
		if row.MaterialTotal.IsNegative() || row.LaborTotal.IsNegative() || row.FinalTotal.IsNegative() {
			return nil, fmt.Errorf("%w: totales negativos para %q", domain.ErrInvalidInput, row.ClientName)
		}
	}

	ouc := uc.orders
	now := ouc.now()
	var created []*entity.ServiceOrder

	err = ouc.withNumberRetry(ctx, func() error {
		created = created[:0]
		return ouc.tx.RunOrder(ctx, func(
			clientRepo repository.ClientRepository,
			vehicleRepo repository.VehicleRepository,
			orderRepo repository.ServiceOrderRepository,
		) error {
			for _, row := range rows {
				order, err := importRow(ctx, clientRepo, vehicleRepo, orderRepo, professionalID, row, now)
				if err != nil {
					return err
				}
				created = append(created, order)
			}
			return nil
		})
	})
	if err != nil {
		ouc.log.Warn().Err(err).Int("rows", len(rows)).Msg("importación CSV revertida")
		return nil, err
	}

	res := &dto.ImportResult{Imported: len(created), Numbers: make([]string, 0, len(created))}
	for _, o := range created {
		res.Numbers = append(res.Numbers, o.Number)
		if ouc.metrics != nil {
			ouc.metrics.OrderCreated("csv")
		}
		order := o
		ouc.afterWrite(ctx, order, func(p EventPublisher) error { return p.PublishOrderCreated(ctx, order) })
	}
	ouc.log.Info().Int("imported", res.Imported).Msg("importación CSV completada")
	return res, nil
}

func importRow(
	ctx context.Context,
	clientRepo repository.ClientRepository,
	vehicleRepo repository.VehicleRepository,
	orderRepo repository.ServiceOrderRepository,
	professionalID string,
	row ImportRow,
	now time.Time,
) (*entity.ServiceOrder, error) {
	name := strings.TrimSpace(row.ClientName)
	client, err := clientRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &entity.Client{ID: uuid.New().String(), Name: name, Phone: row.ClientPhone, CreatedAt: now, UpdatedAt: now}
		if err := clientRepo.Create(ctx, client); err != nil {
			return nil, err
		}
	}

	var vehicleID *string
	if row.LicensePlate != "" || row.CarModel != "" {
		vehicleID, err = resolveVehicle(ctx, vehicleRepo, client.ID, dto.SaveOrderRequest{
			LicensePlate: row.LicensePlate,
			CarModel:     row.CarModel,
		}, now)
		if err != nil {
			return nil, err
		}
	}

	number, err := AllocateNumber(ctx, orderRepo, now.Year())
	if err != nil {
		return nil, err
	}
	status := row.Status
	if status == "" {
		status = entity.OrderStatusInProgress
	}
	order := &entity.ServiceOrder{
		ID:             uuid.New().String(),
		Number:         number,
		IssueDate:      dateOnly(now),
		ProfessionalID: professionalID,
		ClientID:       client.ID,
		VehicleID:      vehicleID,
		MaterialTotal:  row.MaterialTotal,
		LaborTotal:     row.LaborTotal,
		FinalTotal:     row.FinalTotal,
		Status:         status,
		PaymentMethod:  row.PaymentMethod,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.DiscountType = serviceorder.DiscountNone
	order.SetPaid(row.IsPaid, now)
	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func toExportRow(d *repository.OrderDetails) ExportRow {
	o := d.Order
	row := ExportRow{
		Number:        o.Number,
		IssueDate:     o.IssueDate,
		MaterialTotal: o.MaterialTotal,
		LaborTotal:    o.LaborTotal,
		FinalTotal:    o.FinalTotal,
		Status:        o.Status,
		IsPaid:        o.IsPaid,
		PaymentMethod: o.PaymentMethod,
	}
	if d.Client != nil {
		row.ClientName = d.Client.Name
		row.ClientPhone = d.Client.Phone
	}
	if d.Vehicle != nil {
		row.LicensePlate = d.Vehicle.LicensePlate
		row.CarModel = d.Vehicle.CarModel
	}
	if d.Professional != nil {
		row.Professional = d.Professional.ProfessionalName
	}
	return row
}
