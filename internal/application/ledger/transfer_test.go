package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/barstock-api/internal/application/ledger"
	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
)

const (
	sourceBarID = "aaaaaaaa-0000-0000-0000-000000000001"
	destBarID   = "bbbbbbbb-0000-0000-0000-000000000002"
)

// newTransferFixture almacén con dos barras, un artículo y stock inicial en
// la barra origen. La barra destino arranca sin fila de stock.
func newTransferFixture(sourceStock decimal.Decimal) (*fakeStore, *fakeTxRunner, *ledger.TransferUseCase) {
	store := newFakeStore()
	store.addItem(&entity.Item{
		ID: testItemID, Name: "Gin London Dry", Unit: "botella",
		MinStockLevel: dec("5"), IsActive: true,
	})
	store.addBar(&entity.Bar{ID: sourceBarID, Name: "Barra terraza", IsActive: true})
	store.addBar(&entity.Bar{ID: destBarID, Name: "Barra salón", IsActive: true})
	store.setBarStock(&entity.BarStock{
		BarID: sourceBarID, ItemID: testItemID,
		CurrentStock: sourceStock, MinStockLevel: dec("5"),
	})
	runner := newFakeTxRunner(store)
	uc := ledger.NewTransferUseCase(
		runner,
		&fakeBarRepo{s: store},
		&fakeItemRepo{s: store},
		&fakeTransferRepo{s: store},
	)
	return store, runner, uc
}

func baseInput(qty decimal.Decimal) ledger.TransferInput {
	return ledger.TransferInput{
		SourceBarID:      sourceBarID,
		DestinationBarID: destBarID,
		ItemID:           testItemID,
		Quantity:         qty,
		ActorID:          testActorID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslado exitoso
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Exitoso_ConservaElTotal(t *testing.T) {
	store, _, uc := newTransferFixture(dec("20"))

	tr, err := uc.Transfer(context.Background(), baseInput(dec("8")))
	require.NoError(t, err)
	require.NotNil(t, tr)

	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	require.NotNil(t, tr.CompletedAt)

	src := store.barStockOf(sourceBarID, testItemID)
	dst := store.barStockOf(destBarID, testItemID)
	assert.True(t, src.Equal(dec("12")), "el origen debe bajar exactamente la cantidad")
	assert.True(t, dst.Equal(dec("8")), "el destino debe subir exactamente la cantidad")
	assert.True(t, src.Add(dst).Equal(dec("20")),
		"el traslado conserva el total entre las dos barras")
}

func TestTransfer_CreaDosMovimientosLigados(t *testing.T) {
	store, _, uc := newTransferFixture(dec("20"))

	tr, err := uc.Transfer(context.Background(), baseInput(dec("8")))
	require.NoError(t, err)

	movs := store.movementsByReference(tr.ID)
	require.Len(t, movs, 2, "un traslado asienta salida en origen y entrada en destino")

	out, in := movs[0], movs[1]
	if out.Type != entity.MovementTypeOut {
		out, in = in, out
	}
	assert.Equal(t, entity.MovementTypeOut, out.Type)
	assert.Equal(t, sourceBarID, out.BarID)
	assert.True(t, out.Quantity.Equal(dec("-8")))
	assert.True(t, out.ResultingStock.Equal(dec("12")))

	assert.Equal(t, entity.MovementTypeIn, in.Type)
	assert.Equal(t, destBarID, in.BarID)
	assert.True(t, in.Quantity.Equal(dec("8")))
	assert.True(t, in.ResultingStock.Equal(dec("8")))
}

func TestTransfer_DestinoSinFila_SeCreaConMinimoPorDefecto(t *testing.T) {
	store, _, uc := newTransferFixture(dec("20"))

	_, err := uc.Transfer(context.Background(), baseInput(dec("5")))
	require.NoError(t, err)

	store.mu.Lock()
	dst := store.barStock[stockKey(destBarID, testItemID)]
	store.mu.Unlock()
	require.NotNil(t, dst, "la fila destino debe crearse en la primera referencia")
	assert.True(t, dst.CurrentStock.Equal(dec("5")))
	assert.True(t, dst.MinStockLevel.Equal(entity.DefaultMinStockLevel),
		"la fila nueva lleva el nivel mínimo por defecto")
}

func TestTransfer_TrasladoExacto_DejaOrigenEnCero(t *testing.T) {
	store, _, uc := newTransferFixture(dec("6"))

	_, err := uc.Transfer(context.Background(), baseInput(dec("6")))
	require.NoError(t, err, "trasladar exactamente el disponible es válido")
	assert.True(t, store.barStockOf(sourceBarID, testItemID).IsZero())
	assert.True(t, store.barStockOf(destBarID, testItemID).Equal(dec("6")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Precondiciones (en orden, la primera que falla aborta)
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Precondiciones(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ledger.TransferInput)
		wantErr error
	}{
		{
			name:    "origen vacío",
			mutate:  func(in *ledger.TransferInput) { in.SourceBarID = "" },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "misma barra origen y destino",
			mutate:  func(in *ledger.TransferInput) { in.DestinationBarID = in.SourceBarID },
			wantErr: domain.ErrSameBarTransfer,
		},
		{
			name:    "cantidad cero",
			mutate:  func(in *ledger.TransferInput) { in.Quantity = decimal.Zero },
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "cantidad negativa",
			mutate:  func(in *ledger.TransferInput) { in.Quantity = dec("-3") },
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "barra origen inexistente",
			mutate:  func(in *ledger.TransferInput) { in.SourceBarID = "no-existe" },
			wantErr: domain.ErrBarNotFound,
		},
		{
			name:    "barra destino inexistente",
			mutate:  func(in *ledger.TransferInput) { in.DestinationBarID = "no-existe" },
			wantErr: domain.ErrBarNotFound,
		},
		{
			name:    "artículo inexistente",
			mutate:  func(in *ledger.TransferInput) { in.ItemID = "no-existe" },
			wantErr: domain.ErrItemNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, uc := newTransferFixture(dec("20"))
			input := baseInput(dec("5"))
			tc.mutate(&input)

			_, err := uc.Transfer(context.Background(), input)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, store.barStockOf(sourceBarID, testItemID).Equal(dec("20")),
				"una precondición fallida no debe tocar el stock")
			assert.Zero(t, store.movementCount())
		})
	}
}

// La validación misma-barra va antes que la de cantidad: con ambas mal, gana
// la de misma barra.
func TestTransfer_OrdenDePrecondiciones(t *testing.T) {
	_, _, uc := newTransferFixture(dec("20"))
	input := baseInput(decimal.Zero)
	input.DestinationBarID = input.SourceBarID

	_, err := uc.Transfer(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrSameBarTransfer)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock insuficiente en origen
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_StockInsuficiente_NoTocaNingunaBarra(t *testing.T) {
	store, _, uc := newTransferFixture(dec("4"))

	_, err := uc.Transfer(context.Background(), baseInput(dec("5")))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, store.barStockOf(sourceBarID, testItemID).Equal(dec("4")),
		"el origen queda intacto")
	assert.True(t, store.barStockOf(destBarID, testItemID).IsZero(),
		"el destino queda intacto")
	assert.Empty(t, store.movementsByReference(""), "sin asientos sueltos")
}

func TestTransfer_StockInsuficiente_AsientaTrasladoFailed(t *testing.T) {
	store, _, uc := newTransferFixture(dec("4"))

	_, err := uc.Transfer(context.Background(), baseInput(dec("5")))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.Equal(t, 1, store.transferCount(),
		"el traslado rechazado debe quedar asentado como failed")
	tr := store.lastTransfer()
	assert.Equal(t, entity.TransferStatusFailed, tr.Status)
	assert.NotEmpty(t, tr.FailureReason)
	assert.Nil(t, tr.CompletedAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad: fallo a mitad de la transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_FalloEnAsiento_RevierteDebitoYCredito(t *testing.T) {
	store, _, uc := newTransferFixture(dec("20"))
	boom := errors.New("asiento rechazado")
	store.mu.Lock()
	store.failMovementCreate = boom
	store.mu.Unlock()

	_, err := uc.Transfer(context.Background(), baseInput(dec("8")))
	require.Error(t, err)

	assert.True(t, store.barStockOf(sourceBarID, testItemID).Equal(dec("20")),
		"el débito debe revertirse con la transacción")
	assert.True(t, store.barStockOf(destBarID, testItemID).IsZero(),
		"el crédito debe revertirse con la transacción")
	assert.Zero(t, store.movementCount(), "no deben quedar asientos parciales")
}

func TestTransfer_AlmacenCaido_NoIntentaAsentarFailed(t *testing.T) {
	store, runner, uc := newTransferFixture(dec("20"))
	runner.injectConflicts(1, domain.ErrStorageUnavailable)

	_, err := uc.Transfer(context.Background(), baseInput(dec("8")))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Zero(t, store.transferCount(),
		"sin almacén no hay dónde asentar el traslado failed")
}

// Dos traslados concurrentes del mismo artículo hacia una barra destino
// que todavía no tiene fila de stock. La fila inexistente no se puede
// bloquear, así que el candado común es la fila del artículo: sin él,
// ambos créditos leerían cero y el segundo pisaría al primero. Se usa el
// runner con candados por fila para que las transacciones de verdad
// corran en paralelo.
func TestTransfer_ConcurrentesADestinoSinFila_ConservaElTotal(t *testing.T) {
	store := newFakeStore()
	store.addItem(&entity.Item{
		ID: testItemID, Name: "Gin London Dry", Unit: "botella",
		MinStockLevel: dec("5"), IsActive: true,
	})
	store.addBar(&entity.Bar{ID: sourceBarID, Name: "Barra terraza", IsActive: true})
	store.addBar(&entity.Bar{ID: destBarID, Name: "Barra salón", IsActive: true})
	store.setBarStock(&entity.BarStock{
		BarID: sourceBarID, ItemID: testItemID,
		CurrentStock: dec("20"), MinStockLevel: dec("5"),
	})
	runner := &fakeRowLockTxRunner{store: store}
	uc := ledger.NewTransferUseCase(
		runner,
		&fakeBarRepo{s: store},
		&fakeItemRepo{s: store},
		&fakeTransferRepo{s: store},
	)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Transfer(context.Background(), baseInput(dec("5")))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	src := store.barStockOf(sourceBarID, testItemID)
	dst := store.barStockOf(destBarID, testItemID)
	assert.True(t, dst.Equal(dec("10")), "ambos créditos deben quedar aplicados")
	assert.True(t, src.Equal(dec("10")), "ambos débitos deben quedar aplicados")
	assert.True(t, src.Add(dst).Equal(dec("20")), "ningún crédito puede perderse")
	assert.Equal(t, 4, store.movementCount(),
		"cada traslado asienta sus dos movimientos")
}

func TestTransfer_ConflictoTransitorio_ReintentaYCompleta(t *testing.T) {
	store, runner, uc := newTransferFixture(dec("20"))
	runner.injectConflicts(2, domain.ErrWriteConflict)

	tr, err := uc.Transfer(context.Background(), baseInput(dec("8")))
	require.NoError(t, err, "el conflicto transitorio debe resolverse reintentando")
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	assert.True(t, store.barStockOf(sourceBarID, testItemID).Equal(dec("12")))
	assert.True(t, store.barStockOf(destBarID, testItemID).Equal(dec("8")))
	assert.Len(t, store.movementsByReference(tr.ID), 2,
		"el reintento no debe duplicar asientos")
}
