package serviceorder_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con transacciones concurrentes: cada tx escribe en su propia
// capa y la publica en el commit. LockYear bloquea por año hasta el fin de la tx
// (como pg_advisory_xact_lock) y el commit verifica el UNIQUE del número de OS.
// ──────────────────────────────────────────────────────────────────────────────

var errItemsFailed = errors.New("fallo forzado al guardar ítems")

type memState struct {
	clients  map[string]*entity.Client
	vehicles map[string]*entity.Vehicle
	orders   map[string]*entity.ServiceOrder
	items    map[string][]*entity.ServiceOrderItem
	users    map[string]*entity.User
}

func newMemState() *memState {
	return &memState{
		clients:  map[string]*entity.Client{},
		vehicles: map[string]*entity.Vehicle{},
		orders:   map[string]*entity.ServiceOrder{},
		items:    map[string][]*entity.ServiceOrderItem{},
		users:    map[string]*entity.User{},
	}
}

// overlay copia s con las filas de top por encima.
func (s *memState) overlay(top *memState) *memState {
	c := newMemState()
	for _, src := range []*memState{s, top} {
		for k, v := range src.clients {
			cp := *v
			c.clients[k] = &cp
		}
		for k, v := range src.vehicles {
			cp := *v
			c.vehicles[k] = &cp
		}
		for k, v := range src.orders {
			cp := *v
			c.orders[k] = &cp
		}
		for k, v := range src.items {
			c.items[k] = append([]*entity.ServiceOrderItem(nil), v...)
		}
		for k, v := range src.users {
			c.users[k] = v
		}
	}
	return c
}

type memStore struct {
	mu    sync.Mutex
	state *memState

	yearLocks map[int]*sync.Mutex

	conflictsLeft int    // próximos Create de OS que fallan con número duplicado
	failItemsFor  string // ReplaceItems falla si la OS tiene este número
	txCount       int

	ignoreYearLocks  bool   // LockYear no bloquea (simula un repo sin lock)
	afterNumbersRead func() // se ejecuta tras leer los números del año dentro de una tx
	unlockedReads    int    // lecturas de numeración sin el lock del año tomado en la misma tx
	commitConflicts  int    // commits rechazados por número duplicado
}

func newMemStore() *memStore {
	return &memStore{state: newMemState(), yearLocks: map[int]*sync.Mutex{}}
}

func (m *memStore) addUser(u *entity.User) { m.state.users[u.ID] = u }

// memTx escrituras pendientes y locks de año tomados por una transacción.
type memTx struct {
	store  *memStore
	staged *memState
	held   map[int]bool
	order  []int
}

// view estado visible para la tx: lo confirmado más lo propio.
func (tx *memTx) view() *memState {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	return tx.store.state.overlay(tx.staged)
}

func (tx *memTx) lockYear(year int) {
	if tx.held[year] {
		return
	}
	tx.store.mu.Lock()
	l, ok := tx.store.yearLocks[year]
	if !ok {
		l = &sync.Mutex{}
		tx.store.yearLocks[year] = l
	}
	tx.store.mu.Unlock()
	l.Lock()
	tx.held[year] = true
	tx.order = append(tx.order, year)
}

func (tx *memTx) release() {
	tx.store.mu.Lock()
	locks := make([]*sync.Mutex, 0, len(tx.order))
	for _, y := range tx.order {
		locks = append(locks, tx.store.yearLocks[y])
	}
	tx.store.mu.Unlock()
	for _, l := range locks {
		l.Unlock()
	}
}

// commit publica la capa de la tx; un número ya confirmado por otra tx viola el UNIQUE.
func (tx *memTx) commit() error {
	m := tx.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range tx.staged.orders {
		for exID, ex := range m.state.orders {
			if exID != id && ex.Number == o.Number {
				m.commitConflicts++
				return domain.ErrOrderNumberConflict
			}
		}
	}
	m.state = m.state.overlay(tx.staged)
	return nil
}

// RunOrder implementa serviceorder.OrderTxRunner sin serializar las transacciones.
func (m *memStore) RunOrder(_ context.Context, fn func(
	repository.ClientRepository,
	repository.VehicleRepository,
	repository.ServiceOrderRepository,
) error) error {
	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()

	tx := &memTx{store: m, staged: newMemState(), held: map[int]bool{}}
	defer tx.release()
	if err := fn(&memClients{tx: tx}, &memVehicles{tx: tx}, &memOrders{store: m, tx: tx}); err != nil {
		return err
	}
	return tx.commit()
}

// Orders repo de lectura/escritura fuera de transacción.
func (m *memStore) Orders() *memOrders { return &memOrders{store: m} }

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

func (m *memStore) clientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.clients)
}

// ── clientes ──

type memClients struct{ tx *memTx }

func (r *memClients) Create(_ context.Context, c *entity.Client) error {
	cp := *c
	r.tx.staged.clients[c.ID] = &cp
	return nil
}

func (r *memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	return r.tx.view().clients[id], nil
}

func (r *memClients) GetByName(_ context.Context, name string) (*entity.Client, error) {
	for _, c := range r.tx.view().clients {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memClients) List(context.Context) ([]*entity.Client, error) { return nil, nil }

func (r *memClients) Search(context.Context, string, int) ([]*entity.Client, error) {
	return nil, nil
}

func (r *memClients) Update(_ context.Context, c *entity.Client) error {
	if _, ok := r.tx.view().clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.tx.staged.clients[c.ID] = &cp
	return nil
}

// ── vehículos ──

type memVehicles struct{ tx *memTx }

func (r *memVehicles) Create(_ context.Context, v *entity.Vehicle) error {
	cp := *v
	r.tx.staged.vehicles[v.ID] = &cp
	return nil
}

func (r *memVehicles) GetByID(_ context.Context, id string) (*entity.Vehicle, error) {
	return r.tx.view().vehicles[id], nil
}

func (r *memVehicles) ListByClient(_ context.Context, clientID string) ([]*entity.Vehicle, error) {
	var out []*entity.Vehicle
	for _, v := range r.tx.view().vehicles {
		if v.ClientID == clientID {
			out = append(out, v)
		}
	}
	return out, nil
}

// ── órdenes ──

// memOrders con tx != nil opera dentro de una transacción; si no, sobre lo confirmado.
type memOrders struct {
	store *memStore
	tx    *memTx
}

// read ejecuta fn sobre el estado visible.
func (r *memOrders) read(fn func(st *memState)) {
	if r.tx != nil {
		fn(r.tx.view())
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	fn(r.store.state)
}

// write ejecuta fn con el estado visible (lectura) y el destino de las escrituras.
func (r *memOrders) write(fn func(view, dst *memState)) {
	if r.tx != nil {
		fn(r.tx.view(), r.tx.staged)
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	fn(r.store.state, r.store.state)
}

func (r *memOrders) Create(_ context.Context, o *entity.ServiceOrder) (err error) {
	r.store.mu.Lock()
	if r.store.conflictsLeft > 0 {
		r.store.conflictsLeft--
		r.store.mu.Unlock()
		return domain.ErrOrderNumberConflict
	}
	r.store.mu.Unlock()

	r.write(func(view, dst *memState) {
		for _, ex := range view.orders {
			if ex.Number == o.Number {
				err = domain.ErrOrderNumberConflict
				return
			}
		}
		cp := *o
		cp.Items = nil
		dst.orders[o.ID] = &cp
	})
	return err
}

// Update como el UPDATE de postgres: no toca image_key.
func (r *memOrders) Update(_ context.Context, o *entity.ServiceOrder) (err error) {
	r.write(func(view, dst *memState) {
		prev, ok := view.orders[o.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *o
		cp.Items = nil
		cp.ImageKey = prev.ImageKey
		dst.orders[o.ID] = &cp
	})
	return err
}

func (r *memOrders) SetImageKey(_ context.Context, id, key string, at time.Time) (err error) {
	r.write(func(view, dst *memState) {
		prev, ok := view.orders[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *prev
		cp.ImageKey = key
		cp.UpdatedAt = at
		dst.orders[id] = &cp
	})
	return err
}

func (r *memOrders) GetByID(_ context.Context, id string) (out *entity.ServiceOrder, err error) {
	r.read(func(st *memState) {
		if o, ok := st.orders[id]; ok {
			cp := *o
			out = &cp
		}
	})
	return out, nil
}

func details(st *memState, o *entity.ServiceOrder) *repository.OrderDetails {
	cp := *o
	d := &repository.OrderDetails{Order: &cp, Client: st.clients[o.ClientID], Professional: st.users[o.ProfessionalID]}
	if o.VehicleID != nil {
		d.Vehicle = st.vehicles[*o.VehicleID]
	}
	return d
}

func (r *memOrders) GetDetails(_ context.Context, id string) (out *repository.OrderDetails, err error) {
	r.read(func(st *memState) {
		if o, ok := st.orders[id]; ok {
			out = details(st, o)
		}
	})
	return out, nil
}

func (r *memOrders) ReplaceItems(_ context.Context, orderID string, items []*entity.ServiceOrderItem) (err error) {
	r.write(func(view, dst *memState) {
		if o, ok := view.orders[orderID]; ok && o.Number == r.store.failItemsFor {
			err = errItemsFailed
			return
		}
		dst.items[orderID] = append([]*entity.ServiceOrderItem(nil), items...)
	})
	return err
}

func (r *memOrders) ListItems(_ context.Context, orderID string) (out []*entity.ServiceOrderItem, err error) {
	r.read(func(st *memState) {
		out = append(out, st.items[orderID]...)
	})
	return out, nil
}

func (r *memOrders) List(_ context.Context, f repository.OrderFilter) (out []*repository.OrderDetails, err error) {
	r.read(func(st *memState) {
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.Paid != nil && o.IsPaid != *f.Paid {
				continue
			}
			if f.ClientID != "" && o.ClientID != f.ClientID {
				continue
			}
			if f.DateFrom != nil && o.IssueDate.Before(*f.DateFrom) {
				continue
			}
			if f.DateTo != nil && o.IssueDate.After(*f.DateTo) {
				continue
			}
			d := details(st, o)
			if f.Search != "" {
				term := strings.ToLower(f.Search)
				hay := strings.ToLower(o.Number + " " + d.Client.Name)
				if d.Vehicle != nil {
					hay += " " + strings.ToLower(d.Vehicle.LicensePlate)
				}
				if !strings.Contains(hay, term) {
					continue
				}
			}
			out = append(out, d)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Order.Number > out[j].Order.Number })
	return out, nil
}

func (r *memOrders) Recent(ctx context.Context, limit int) ([]*repository.OrderDetails, error) {
	all, _ := r.List(ctx, repository.OrderFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memOrders) Stats(context.Context, time.Time) (*repository.OrderStats, error) {
	return &repository.OrderStats{}, nil
}

// ListNumbersByYear registra si la tx lee la numeración sin haber tomado el lock del año.
func (r *memOrders) ListNumbersByYear(_ context.Context, year int) (out []string, err error) {
	if r.tx != nil && !r.tx.held[year] {
		r.store.mu.Lock()
		r.store.unlockedReads++
		r.store.mu.Unlock()
	}
	prefix := serviceorder.YearPrefix(year)
	r.read(func(st *memState) {
		for _, o := range st.orders {
			if strings.HasPrefix(o.Number, prefix) {
				out = append(out, o.Number)
			}
		}
	})
	if r.tx != nil && r.store.afterNumbersRead != nil {
		r.store.afterNumbersRead()
	}
	return out, nil
}

// LockYear fuera de una tx no retiene nada, igual que el advisory lock transaccional.
func (r *memOrders) LockYear(_ context.Context, year int) error {
	if r.tx == nil || r.store.ignoreYearLocks {
		return nil
	}
	r.tx.lockYear(year)
	return nil
}

// ── colaboradores opcionales ──

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	updated []string
	paid    []string
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o *entity.ServiceOrder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, o.Number)
	return nil
}

func (p *recordingPublisher) PublishOrderUpdated(_ context.Context, o *entity.ServiceOrder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, o.Number)
	return nil
}

func (p *recordingPublisher) PublishOrderPaid(_ context.Context, o *entity.ServiceOrder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid = append(p.paid, o.Number)
	return nil
}

type countingMetrics struct {
	mu        sync.Mutex
	created   map[string]int
	conflicts int
}

func (m *countingMetrics) OrderCreated(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.created == nil {
		m.created = map[string]int{}
	}
	m.created[source]++
}

func (m *countingMetrics) OrderNumberConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[key] = data
	return nil
}

func (s *memStorage) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *memStorage) URL(_ context.Context, key string) (string, error) {
	return "http://storage.test/" + key, nil
}
