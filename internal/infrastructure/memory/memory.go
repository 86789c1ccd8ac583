// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Se usa en tests y en modo demo: misma semántica transaccional que
// la implementación de PostgreSQL (todo o nada, escrituras serializadas),
// sin base de datos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/application/sales"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// Store contenedor en memoria de todas las tablas. Las transacciones se
// serializan con un mutex global, que cumple el mismo papel que los advisory
// locks de PostgreSQL: un solo escritor por vez sobre el estado compartido.
type Store struct {
	mu           sync.Mutex
	tenants      map[string]*entity.Tenant
	stores       map[string]*entity.Store
	products     map[string]*entity.Product
	users        map[string]*entity.User
	movements    []*entity.Movement
	sales        map[string]*entity.Sale
	saleCounters map[string]int64
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		tenants:      make(map[string]*entity.Tenant),
		stores:       make(map[string]*entity.Store),
		products:     make(map[string]*entity.Product),
		users:        make(map[string]*entity.User),
		sales:        make(map[string]*entity.Sale),
		saleCounters: make(map[string]int64),
	}
}

// snapshot captura el estado mutable por las transacciones. Las entidades
// almacenadas nunca se mutan in place (los repos guardan y devuelven copias),
// así que basta con copiar los contenedores.
type snapshot struct {
	movementsLen int
	sales        map[string]*entity.Sale
	saleCounters map[string]int64
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		movementsLen: len(s.movements),
		sales:        make(map[string]*entity.Sale, len(s.sales)),
		saleCounters: make(map[string]int64, len(s.saleCounters)),
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.saleCounters {
		snap.saleCounters[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.movements = s.movements[:snap.movementsLen]
	s.sales = snap.sales
	s.saleCounters = snap.saleCounters
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// TxRunner transacciones sobre el Store: toma el lock global, captura un
// snapshot y lo restaura si fn falla. Equivale al Begin/Rollback/Commit de pgx.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con un repositorio de movimientos transaccional.
func (r *TxRunner) Run(ctx context.Context, fn func(movRepo repository.MovementRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.takeSnapshot()
	if err := fn(&MovementRepo{store: r.store, inTx: true}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// RunSale ejecuta fn con los repositorios de venta atados a la transacción.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.takeSnapshot()
	err := fn(
		&MovementRepo{store: r.store, inTx: true},
		&SaleRepo{store: r.store, inTx: true},
		&ProductRepo{store: r.store, inTx: true},
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ── MovementRepo ─────────────────────────────────────────────────────────────

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo kardex en memoria.
type MovementRepo struct {
	store *Store
	inTx  bool // dentro de una tx el lock global ya está tomado
}

// NewMovementRepository repositorio fuera de transacción (lecturas sueltas).
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *MovementRepo) Create(m *entity.Movement) error {
	defer r.lock()()
	clone := *m
	r.store.movements = append(r.store.movements, &clone)
	return nil
}

// LockStock no necesita hacer nada: el mutex global de la transacción ya
// serializa a todos los escritores.
func (r *MovementRepo) LockStock(tenantID, storeID, productID string) error {
	return nil
}

func (r *MovementRepo) SumStock(tenantID, storeID, productID string) (int64, error) {
	defer r.lock()()
	var sum int64
	for _, m := range r.store.movements {
		if m.TenantID == tenantID && m.StoreID == storeID && m.ProductID == productID {
			sum += m.Signed()
		}
	}
	return sum, nil
}

func (r *MovementRepo) List(f repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.lock()()
	out := make([]*entity.Movement, 0)
	for _, m := range r.store.movements {
		if m.TenantID != f.TenantID {
			continue
		}
		if f.StoreID != "" && m.StoreID != f.StoreID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, f.Limit, f.Offset), nil
}

// ── SaleRepo ─────────────────────────────────────────────────────────────────

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	store *Store
	inTx  bool
}

// NewSaleRepository repositorio fuera de transacción.
func NewSaleRepository(store *Store) *SaleRepo {
	return &SaleRepo{store: store}
}

func (r *SaleRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *SaleRepo) Create(s *entity.Sale) error {
	defer r.lock()()
	if _, exists := r.store.sales[s.ID]; exists {
		return domain.ErrDuplicate
	}
	r.store.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *SaleRepo) GetByID(tenantID, id string) (*entity.Sale, error) {
	defer r.lock()()
	s, ok := r.store.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *SaleRepo) List(f repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.lock()()
	out := make([]*entity.Sale, 0)
	for _, s := range r.store.sales {
		if s.TenantID != f.TenantID {
			continue
		}
		if f.StoreID != "" && s.StoreID != f.StoreID {
			continue
		}
		if !f.IncludeVoided && s.Status == entity.SaleStatusVoided {
			continue
		}
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && s.CreatedAt.After(*f.To) {
			continue
		}
		clone := cloneSale(s)
		clone.Items = nil
		out = append(out, clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *SaleRepo) NextNumber(tenantID string) (int64, error) {
	defer r.lock()()
	r.store.saleCounters[tenantID]++
	return r.store.saleCounters[tenantID], nil
}

func (r *SaleRepo) MarkVoided(s *entity.Sale) error {
	defer r.lock()()
	current, ok := r.store.sales[s.ID]
	if !ok || current.TenantID != s.TenantID || current.Status != entity.SaleStatusActive {
		return domain.ErrSaleVoided
	}
	r.store.sales[s.ID] = cloneSale(s)
	return nil
}

// ── ProductRepo ──────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	store *Store
	inTx  bool
}

// NewProductRepository repositorio fuera de transacción.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *ProductRepo) Create(p *entity.Product) error {
	defer r.lock()()
	for _, existing := range r.store.products {
		if existing.TenantID == p.TenantID && existing.Barcode == p.Barcode {
			return domain.ErrDuplicate
		}
	}
	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

func (r *ProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.store.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *ProductRepo) GetByBarcode(tenantID, barcode string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.store.products {
		if p.TenantID == tenantID && p.Barcode == barcode && p.IsActive {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetManyByIDs(tenantID string, ids []string) ([]*entity.Product, error) {
	defer r.lock()()
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok && p.TenantID == tenantID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *ProductRepo) ListByTenant(tenantID, q string) ([]*entity.Product, error) {
	defer r.lock()()
	q = strings.ToLower(q)
	out := make([]*entity.Product, 0)
	for _, p := range r.store.products {
		if p.TenantID != tenantID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Barcode), q) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	defer r.lock()()
	current, ok := r.store.products[p.ID]
	if !ok || current.TenantID != p.TenantID {
		return domain.ErrNotFound
	}
	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

// ── StoreRepo ────────────────────────────────────────────────────────────────

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo tiendas en memoria.
type StoreRepo struct {
	store *Store
}

// NewStoreRepository construye el repositorio.
func NewStoreRepository(store *Store) *StoreRepo {
	return &StoreRepo{store: store}
}

func (r *StoreRepo) Create(s *entity.Store) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *s
	r.store.stores[s.ID] = &clone
	return nil
}

func (r *StoreRepo) GetByID(tenantID, id string) (*entity.Store, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.stores[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *StoreRepo) ListByTenant(tenantID string) ([]*entity.Store, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Store, 0)
	for _, s := range r.store.stores {
		if s.TenantID == tenantID {
			clone := *s
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *StoreRepo) Update(s *entity.Store) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.stores[s.ID]
	if !ok || current.TenantID != s.TenantID {
		return domain.ErrNotFound
	}
	clone := *s
	r.store.stores[s.ID] = &clone
	return nil
}

// ── UserRepo ─────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el repositorio.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(u *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(tenantID, id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email && u.IsActive {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByTenant(tenantID string) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.User, 0)
	for _, u := range r.store.users {
		if u.TenantID == tenantID {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.users[u.ID]
	if !ok || current.TenantID != u.TenantID {
		return domain.ErrNotFound
	}
	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

// ── TenantRepo ───────────────────────────────────────────────────────────────

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo empresas en memoria.
type TenantRepo struct {
	store *Store
}

// NewTenantRepository construye el repositorio.
func NewTenantRepository(store *Store) *TenantRepo {
	return &TenantRepo{store: store}
}

func (r *TenantRepo) Create(t *entity.Tenant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.tenants {
		if existing.Name == t.Name {
			return domain.ErrDuplicate
		}
	}
	clone := *t
	r.store.tenants[t.ID] = &clone
	return nil
}

func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tenants[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (r *TenantRepo) GetByName(name string) (*entity.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.tenants {
		if t.Name == name {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *TenantRepo) List() ([]*entity.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Tenant, 0, len(r.store.tenants))
	for _, t := range r.store.tenants {
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func cloneSale(s *entity.Sale) *entity.Sale {
	clone := *s
	if s.VoidedAt != nil {
		at := *s.VoidedAt
		clone.VoidedAt = &at
	}
	clone.Items = make([]*entity.SaleItem, len(s.Items))
	for i, it := range s.Items {
		item := *it
		clone.Items[i] = &item
	}
	return &clone
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
