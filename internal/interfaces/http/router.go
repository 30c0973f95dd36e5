package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/barstock-api/internal/application/ledger"
	"github.com/tu-usuario/barstock-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *usecase.ItemUseCase
	BarUC      *usecase.BarUseCase
	MovementUC *ledger.ApplyMovementUseCase
	TransferUC *ledger.TransferUseCase
	QueryUC    *ledger.StockQueryUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo va detrás del Bearer Token;
// las mutaciones de stock además exigen rol admin o manager.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Bars (protegido)
	bars := api.Group("/bars")
	barHandler := NewBarHandler(deps.BarUC)
	bars.Post("/", RequireRole(RoleAdmin, RoleManager), barHandler.Create)
	bars.Get("/", barHandler.List)
	bars.Get("/:id", barHandler.GetByID)
	bars.Put("/:id", RequireRole(RoleAdmin, RoleManager), barHandler.Update)

	// Items (protegido)
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireRole(RoleAdmin, RoleManager), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", RequireRole(RoleAdmin, RoleManager), itemHandler.Update)

	// Libro de stock (protegido; mutaciones restringidas por rol)
	inv := api.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.MovementUC, deps.TransferUC, deps.QueryUC)
	inv.Post("/movements", RequireRole(RoleAdmin, RoleManager), ledgerHandler.RegisterMovement)
	inv.Get("/movements", ledgerHandler.ListMovements)
	inv.Post("/transfers", RequireRole(RoleAdmin, RoleManager), ledgerHandler.Transfer)
	inv.Get("/stock", ledgerHandler.GetStock)
	inv.Get("/low-stock", ledgerHandler.ListLowStock)
}
