package ledger_test

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria para los tests del motor de stock.
//
// fakeStore guarda el estado; fakeTxRunner serializa las "transacciones" con
// un mutex y, si fn devuelve error, restaura la foto previa del estado. Así
// los tests ejercitan de verdad la atomicidad (rollback) y el aislamiento
// (una transacción a la vez), sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	items     map[string]*entity.Item
	bars      map[string]*entity.Bar
	barStock  map[string]*entity.BarStock // clave: barID + "|" + itemID
	movements []*entity.StockMovement
	transfers []*entity.Transfer

	// Inyección de fallos: si no son nil, el Create correspondiente falla.
	failMovementCreate error
	failTransferCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:    make(map[string]*entity.Item),
		bars:     make(map[string]*entity.Bar),
		barStock: make(map[string]*entity.BarStock),
	}
}

func stockKey(barID, itemID string) string { return barID + "|" + itemID }

func (s *fakeStore) addItem(item *entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

func (s *fakeStore) addBar(bar *entity.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars[bar.ID] = bar
}

func (s *fakeStore) setBarStock(stock *entity.BarStock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barStock[stockKey(stock.BarID, stock.ItemID)] = stock
}

func (s *fakeStore) itemStock(itemID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[itemID].CurrentStock
}

func (s *fakeStore) barStockOf(barID, itemID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.barStock[stockKey(barID, itemID)]; ok {
		return st.CurrentStock
	}
	return decimal.Zero
}

func (s *fakeStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *fakeStore) movementsByReference(ref string) []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.Reference == ref {
			out = append(out, m)
		}
	}
	return out
}

func (s *fakeStore) transferCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transfers)
}

func (s *fakeStore) lastTransfer() *entity.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.transfers) == 0 {
		return nil
	}
	return s.transfers[len(s.transfers)-1]
}

// snapshot copia profunda del estado mutable, para el rollback del fakeTxRunner.
func (s *fakeStore) snapshot() *fakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := newFakeStore()
	for id, it := range s.items {
		cp := *it
		snap.items[id] = &cp
	}
	for id, b := range s.bars {
		cp := *b
		snap.bars[id] = &cp
	}
	for k, st := range s.barStock {
		cp := *st
		snap.barStock[k] = &cp
	}
	snap.movements = append(snap.movements, s.movements...)
	snap.transfers = append(snap.transfers, s.transfers...)
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.bars = snap.bars
	s.barStock = snap.barStock
	s.movements = snap.movements
	s.transfers = snap.transfers
}

// ── fakeTxRunner ──────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *fakeStore
	txMu  sync.Mutex

	// conflicts: mientras sea > 0, cada Run falla con el error indicado en
	// conflictErr (tras revertir), decrementando el contador. Sirve para
	// ejercitar la política de reintentos del motor.
	mu          sync.Mutex
	conflicts   int
	conflictErr error
}

func newFakeTxRunner(store *fakeStore) *fakeTxRunner {
	return &fakeTxRunner{store: store}
}

func (r *fakeTxRunner) injectConflicts(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts = n
	r.conflictErr = err
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	stockRepo repository.BarStockRepository,
	movRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	if r.conflicts > 0 {
		r.conflicts--
		err := r.conflictErr
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		&fakeItemRepo{s: r.store},
		&fakeBarStockRepo{s: r.store},
		&fakeMovementRepo{s: r.store},
		&fakeTransferRepo{s: r.store},
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ── Repositorios fake ─────────────────────────────────────────────────────────

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Create(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *fakeItemRepo) Update(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) UpdateStock(itemID string, newStock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[itemID].CurrentStock = newStock
	return nil
}

func (r *fakeItemRepo) UpdatePrices(itemID string, costPerUnit, sellingPrice *decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it := r.s.items[itemID]
	if costPerUnit != nil {
		cp := *costPerUnit
		it.CostPerUnit = &cp
	}
	if sellingPrice != nil {
		sp := *sellingPrice
		it.SellingPrice = &sp
	}
	return nil
}

func (r *fakeItemRepo) List(limit, offset int, activeOnly bool) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.s.items {
		if activeOnly && !it.IsActive {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *fakeItemRepo) ListLowStock() ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.s.items {
		if it.IsActive && it.IsLowStock() {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeBarRepo struct{ s *fakeStore }

func (r *fakeBarRepo) Create(bar *entity.Bar) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bars[bar.ID] = bar
	return nil
}

func (r *fakeBarRepo) GetByID(id string) (*entity.Bar, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bars[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBarRepo) Update(bar *entity.Bar) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bars[bar.ID] = bar
	return nil
}

func (r *fakeBarRepo) List(limit, offset int) ([]*entity.Bar, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Bar
	for _, b := range r.s.bars {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

type fakeBarStockRepo struct{ s *fakeStore }

// Get replica el contrato del repo real: fila inexistente se devuelve en
// cero con el nivel mínimo por defecto.
func (r *fakeBarStockRepo) Get(barID, itemID string) (*entity.BarStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.barStock[stockKey(barID, itemID)]; ok {
		cp := *st
		return &cp, nil
	}
	return &entity.BarStock{
		BarID:         barID,
		ItemID:        itemID,
		CurrentStock:  decimal.Zero,
		MinStockLevel: entity.DefaultMinStockLevel,
	}, nil
}

func (r *fakeBarStockRepo) GetForUpdate(barID, itemID string) (*entity.BarStock, error) {
	return r.Get(barID, itemID)
}

func (r *fakeBarStockRepo) Upsert(stock *entity.BarStock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *stock
	r.s.barStock[stockKey(stock.BarID, stock.ItemID)] = &cp
	return nil
}

func (r *fakeBarStockRepo) ListByBar(barID string, limit, offset int) ([]*entity.BarStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BarStock
	for _, st := range r.s.barStock {
		if st.BarID == barID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return paginate(out, limit, offset), nil
}

func (r *fakeBarStockRepo) ListLowStock(barID string) ([]repository.LowStockRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.LowStockRow
	for _, st := range r.s.barStock {
		if barID != "" && st.BarID != barID {
			continue
		}
		if !st.CurrentStock.LessThanOrEqual(st.MinStockLevel) {
			continue
		}
		row := repository.LowStockRow{
			BarID:         st.BarID,
			ItemID:        st.ItemID,
			CurrentStock:  st.CurrentStock,
			MinStockLevel: st.MinStockLevel,
		}
		if it, ok := r.s.items[st.ItemID]; ok {
			row.ItemName = it.Name
			row.Unit = it.Unit
		}
		out = append(out, row)
	}
	// Mayor déficit primero, como el repo real.
	sort.Slice(out, func(i, j int) bool {
		di := out[i].MinStockLevel.Sub(out[i].CurrentStock)
		dj := out[j].MinStockLevel.Sub(out[j].CurrentStock)
		return di.GreaterThan(dj)
	})
	return out, nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMovementCreate != nil {
		return r.s.failMovementCreate
	}
	cp := *movement
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// List devuelve del más reciente al más antiguo, como el repo real.
func (r *fakeMovementRepo) List(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if itemID != "" && m.ItemID != itemID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

type fakeTransferRepo struct{ s *fakeStore }

func (r *fakeTransferRepo) Create(transfer *entity.Transfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failTransferCreate != nil {
		return r.s.failTransferCreate
	}
	cp := *transfer
	r.s.transfers = append(r.s.transfers, &cp)
	return nil
}

func (r *fakeTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, tr := range r.s.transfers {
		if tr.ID == id {
			cp := *tr
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTransferRepo) List(limit, offset int) ([]*entity.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transfer
	for i := len(r.s.transfers) - 1; i >= 0; i-- {
		cp := *r.s.transfers[i]
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeRowLockTxRunner: transacciones concurrentes con candados por fila.
//
// A diferencia de fakeTxRunner (una transacción a la vez), este runner deja
// correr varias transacciones en paralelo reproduciendo la semántica del
// almacén real: GetForUpdate sobre una fila existente la bloquea hasta el
// final de la transacción y relee el estado confirmado; sobre una fila
// INEXISTENTE no retiene nada (no hay fila que bloquear) y devuelve la
// fila sintetizada en cero. Las escrituras quedan en un buffer local y se
// aplican en bloque al confirmar, igual que un commit.
// ──────────────────────────────────────────────────────────────────────────────

type fakeRowLockTxRunner struct {
	store *fakeStore
	locks sync.Map // clave de fila -> *sync.Mutex
}

type rowLockTx struct {
	runner    *fakeRowLockTxRunner
	held      map[string]*sync.Mutex
	barStock  map[string]*entity.BarStock // escrituras pendientes
	movements []*entity.StockMovement
	transfers []*entity.Transfer
}

func (r *fakeRowLockTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	stockRepo repository.BarStockRepository,
	movRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	tx := &rowLockTx{
		runner:   r,
		held:     make(map[string]*sync.Mutex),
		barStock: make(map[string]*entity.BarStock),
	}
	defer tx.releaseAll()

	err := fn(
		&lockingItemRepo{fakeItemRepo: &fakeItemRepo{s: r.store}, tx: tx},
		&lockingBarStockRepo{fakeBarStockRepo: &fakeBarStockRepo{s: r.store}, tx: tx},
		&lockingMovementRepo{fakeMovementRepo: &fakeMovementRepo{s: r.store}, tx: tx},
		&lockingTransferRepo{fakeTransferRepo: &fakeTransferRepo{s: r.store}, tx: tx},
	)
	if err != nil {
		return err // las escrituras pendientes se descartan
	}
	tx.commit()
	return nil
}

// lock adquiere el candado de la fila y lo retiene hasta el fin de la tx.
func (tx *rowLockTx) lock(key string) {
	if _, ok := tx.held[key]; ok {
		return
	}
	v, _ := tx.runner.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	tx.held[key] = mu
}

func (tx *rowLockTx) releaseAll() {
	for _, mu := range tx.held {
		mu.Unlock()
	}
}

func (tx *rowLockTx) commit() {
	s := tx.runner.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, st := range tx.barStock {
		s.barStock[k] = st
	}
	s.movements = append(s.movements, tx.movements...)
	s.transfers = append(s.transfers, tx.transfers...)
}

type lockingItemRepo struct {
	*fakeItemRepo
	tx *rowLockTx
}

// GetForUpdate bloquea la fila del artículo y relee tras obtener el
// candado: otra transacción pudo confirmar mientras se esperaba.
func (r *lockingItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	it, err := r.fakeItemRepo.GetByID(id)
	if err != nil || it == nil {
		return it, err
	}
	r.tx.lock("item|" + id)
	return r.fakeItemRepo.GetByID(id)
}

type lockingBarStockRepo struct {
	*fakeBarStockRepo
	tx *rowLockTx
}

func (r *lockingBarStockRepo) GetForUpdate(barID, itemID string) (*entity.BarStock, error) {
	key := stockKey(barID, itemID)
	if st, ok := r.tx.barStock[key]; ok {
		cp := *st
		return &cp, nil
	}
	r.s.mu.Lock()
	_, exists := r.s.barStock[key]
	r.s.mu.Unlock()
	if exists {
		r.tx.lock("stock|" + key)
		return r.fakeBarStockRepo.Get(barID, itemID)
	}
	// Fila inexistente: FOR UPDATE no retiene nada.
	return &entity.BarStock{
		BarID:         barID,
		ItemID:        itemID,
		CurrentStock:  decimal.Zero,
		MinStockLevel: entity.DefaultMinStockLevel,
	}, nil
}

// Upsert escritura absoluta diferida al commit, como el adaptador real.
func (r *lockingBarStockRepo) Upsert(stock *entity.BarStock) error {
	cp := *stock
	r.tx.barStock[stockKey(stock.BarID, stock.ItemID)] = &cp
	return nil
}

type lockingMovementRepo struct {
	*fakeMovementRepo
	tx *rowLockTx
}

func (r *lockingMovementRepo) Create(movement *entity.StockMovement) error {
	cp := *movement
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}

type lockingTransferRepo struct {
	*fakeTransferRepo
	tx *rowLockTx
}

func (r *lockingTransferRepo) Create(transfer *entity.Transfer) error {
	cp := *transfer
	r.tx.transfers = append(r.tx.transfers, &cp)
	return nil
}

// paginate recorte limit/offset sobre un slice ya ordenado.
func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
