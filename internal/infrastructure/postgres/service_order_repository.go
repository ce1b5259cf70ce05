package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

// orderNumberConstraint nombre del UNIQUE sobre os_number (ver migrations/001_schema.sql).
const orderNumberConstraint = "service_orders_os_number_key"

// orderNumberLockKey espacio de advisory locks de la numeración; el segundo entero es el año.
const orderNumberLockKey = 0x05_0D_E4

// ServiceOrderRepo cabecera e ítems de la OS. Usable con pool o tx.
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

const orderColumns = `o.id, o.os_number, o.issue_date, o.professional_id, o.client_id, o.vehicle_id,
	o.material_total, o.labor_total, o.general_budget, o.discount_type, o.discount_value,
	o.surcharge_percentage, o.final_total, o.status, o.payment_method, o.is_paid, o.payment_date,
	o.internal_observations, o.image_key, o.created_at, o.updated_at`

// detailsSelect OS + cliente + vehículo (opcional) + profesional.
const detailsSelect = `SELECT ` + orderColumns + `,
	c.name, c.phone,
	v.license_plate, v.car_model, v.year, v.color,
	u.username, u.professional_name
	FROM service_orders o
	JOIN clients c ON c.id = o.client_id
	JOIN users u ON u.id = o.professional_id
	LEFT JOIN vehicles v ON v.id = o.vehicle_id`

// Create inserta la cabecera. Número repetido → domain.ErrOrderNumberConflict.
func (r *ServiceOrderRepo) Create(ctx context.Context, o *entity.ServiceOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO service_orders (
			id, os_number, issue_date, professional_id, client_id, vehicle_id,
			material_total, labor_total, general_budget, discount_type, discount_value,
			surcharge_percentage, final_total, status, payment_method, is_paid, payment_date,
			internal_observations, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		o.ID, o.Number, o.IssueDate, o.ProfessionalID, o.ClientID, o.VehicleID,
		o.MaterialTotal, o.LaborTotal, o.GeneralBudget, string(o.DiscountType), o.DiscountValue,
		o.SurchargePercentage, o.FinalTotal, o.Status, o.PaymentMethod, o.IsPaid, o.PaymentDate,
		o.InternalObservations, o.ImageKey, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if constraintViolated(err, orderNumberConstraint) {
			return domain.ErrOrderNumberConflict
		}
		return fmt.Errorf("insert service order: %w", err)
	}
	return nil
}

// Update reescribe todo salvo número, fecha de emisión, profesional y adjunto (ver SetImageKey).
func (r *ServiceOrderRepo) Update(ctx context.Context, o *entity.ServiceOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE service_orders SET
			client_id = $2, vehicle_id = $3, material_total = $4, labor_total = $5,
			general_budget = $6, discount_type = $7, discount_value = $8, surcharge_percentage = $9,
			final_total = $10, status = $11, payment_method = $12, is_paid = $13, payment_date = $14,
			internal_observations = $15, updated_at = $16
		WHERE id = $1`,
		o.ID, o.ClientID, o.VehicleID, o.MaterialTotal, o.LaborTotal,
		o.GeneralBudget, string(o.DiscountType), o.DiscountValue, o.SurchargePercentage,
		o.FinalTotal, o.Status, o.PaymentMethod, o.IsPaid, o.PaymentDate,
		o.InternalObservations, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceOrderRepo) SetImageKey(ctx context.Context, id, key string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE service_orders SET image_key = $2, updated_at = $3 WHERE id = $1`, id, key, at)
	if err != nil {
		return fmt.Errorf("set service order image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID solo la cabecera.
func (r *ServiceOrderRepo) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM service_orders o WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service order: %w", err)
	}
	return o, nil
}

// GetDetails cabecera con cliente, vehículo y profesional (sin ítems).
func (r *ServiceOrderRepo) GetDetails(ctx context.Context, id string) (*repository.OrderDetails, error) {
	d, err := scanDetails(r.q.QueryRow(ctx, detailsSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service order details: %w", err)
	}
	return d, nil
}

// ReplaceItems borra los ítems de la OS e inserta los nuevos.
func (r *ServiceOrderRepo) ReplaceItems(ctx context.Context, orderID string, items []*entity.ServiceOrderItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM service_order_items WHERE service_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete service order items: %w", err)
	}
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO service_order_items (id, service_order_id, name, description, quantity, unit_price, total_price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, orderID, it.Name, it.Description, it.Quantity, it.UnitPrice, it.TotalPrice, it.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert service order item: %w", err)
		}
	}
	return nil
}

func (r *ServiceOrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.ServiceOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, service_order_id, name, description, quantity, unit_price, total_price, created_at
		FROM service_order_items WHERE service_order_id = $1 ORDER BY created_at, name`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list service order items: %w", err)
	}
	defer rows.Close()
	var out []*entity.ServiceOrderItem
	for rows.Next() {
		var it entity.ServiceOrderItem
		if err := rows.Scan(&it.ID, &it.ServiceOrderID, &it.Name, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// List historial filtrado, más recientes primero.
func (r *ServiceOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*repository.OrderDetails, error) {
	where, args := buildOrderFilter(f)
	return r.queryDetails(ctx, detailsSelect+where+` ORDER BY o.created_at DESC, o.os_number DESC`, args...)
}

// Recent últimas limit órdenes creadas.
func (r *ServiceOrderRepo) Recent(ctx context.Context, limit int) ([]*repository.OrderDetails, error) {
	return r.queryDetails(ctx, detailsSelect+` ORDER BY o.created_at DESC, o.os_number DESC LIMIT $1`, limit)
}

// Stats contadores del dashboard. La facturación del día suma lo pagado creado hoy.
func (r *ServiceOrderRepo) Stats(ctx context.Context, today time.Time) (*repository.OrderStats, error) {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 0, 1)
	var s repository.OrderStats
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE NOT is_paid),
			COALESCE(SUM(final_total) FILTER (WHERE is_paid AND created_at >= $2 AND created_at < $3), 0)
		FROM service_orders`,
		entity.OrderStatusInProgress, start, end,
	).Scan(&s.TotalOrders, &s.PendingOrders, &s.UnpaidOrders, &s.TodayRevenue)
	if err != nil {
		return nil, fmt.Errorf("service order stats: %w", err)
	}
	return &s, nil
}

// ListNumbersByYear números con prefijo OS-AAAA-.
func (r *ServiceOrderRepo) ListNumbersByYear(ctx context.Context, year int) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT os_number FROM service_orders WHERE os_number LIKE $1`,
		serviceorder.YearPrefix(year)+"%")
	if err != nil {
		return nil, fmt.Errorf("list order numbers: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan order number: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// LockYear toma un advisory lock transaccional por año. Fuera de una tx se libera
// al terminar la sentencia, así que solo tiene efecto con el repo atado a la tx.
func (r *ServiceOrderRepo) LockYear(ctx context.Context, year int) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(orderNumberLockKey), int32(year)); err != nil {
		return fmt.Errorf("lock order numbering: %w", err)
	}
	return nil
}

func (r *ServiceOrderRepo) queryDetails(ctx context.Context, query string, args ...any) ([]*repository.OrderDetails, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	defer rows.Close()
	var out []*repository.OrderDetails
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service order: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// buildOrderFilter arma el WHERE con placeholders numerados.
func buildOrderFilter(f repository.OrderFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR v.license_plate ILIKE $%d OR o.os_number ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		add("o.status = $%d", f.Status)
	}
	if f.Paid != nil {
		add("o.is_paid = $%d", *f.Paid)
	}
	if f.ClientID != "" {
		add("o.client_id = $%d", f.ClientID)
	}
	if f.DateFrom != nil {
		add("o.issue_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("o.issue_date <= $%d", *f.DateTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanOrder(row pgx.Row) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	var discountType string
	err := row.Scan(orderDest(&o, &discountType)...)
	if err != nil {
		return nil, err
	}
	o.DiscountType = serviceorder.ParseDiscountType(discountType)
	return &o, nil
}

func orderDest(o *entity.ServiceOrder, discountType *string) []any {
	return []any{
		&o.ID, &o.Number, &o.IssueDate, &o.ProfessionalID, &o.ClientID, &o.VehicleID,
		&o.MaterialTotal, &o.LaborTotal, &o.GeneralBudget, discountType, &o.DiscountValue,
		&o.SurchargePercentage, &o.FinalTotal, &o.Status, &o.PaymentMethod, &o.IsPaid, &o.PaymentDate,
		&o.InternalObservations, &o.ImageKey, &o.CreatedAt, &o.UpdatedAt,
	}
}

func scanDetails(row pgx.Row) (*repository.OrderDetails, error) {
	var o entity.ServiceOrder
	var discountType string
	var client entity.Client
	var plate, model, color *string
	var year *int
	var prof entity.User

	dest := orderDest(&o, &discountType)
	dest = append(dest,
		&client.Name, &client.Phone,
		&plate, &model, &year, &color,
		&prof.Username, &prof.ProfessionalName,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	o.DiscountType = serviceorder.ParseDiscountType(discountType)
	client.ID = o.ClientID
	prof.ID = o.ProfessionalID

	d := &repository.OrderDetails{Order: &o, Client: &client, Professional: &prof}
	if o.VehicleID != nil && plate != nil {
		d.Vehicle = &entity.Vehicle{
			ID:           *o.VehicleID,
			ClientID:     o.ClientID,
			LicensePlate: *plate,
			CarModel:     deref(model),
			Year:         year,
			Color:        deref(color),
		}
	}
	return d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
