package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/application/inventory"
	"github.com/jhoicas/Inventario-batch/internal/application/item"
	"github.com/jhoicas/Inventario-batch/pkg/jwt"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *item.UseCase
	InventoryUC *inventory.UseCase
	ActivityUC  *activity.UseCase
	// JWTSecret vacío deja /api sin autenticación.
	JWTSecret string
	// Idempotency nil desactiva la verificación de Idempotency-Key.
	Idempotency IdempotencyStore
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	api := app.Group("/api")
	adminOnly := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		adminOnly = RequireRole(jwt.RoleAdmin)
	}

	idem := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Idempotency != nil {
		idem = Idempotency(deps.Idempotency, deps.Log)
	}

	// Items
	items := api.Group("/item")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/add", idem, itemHandler.Add)
	items.Put("/update", idem, itemHandler.Update)
	items.Post("/delete/:itemId", adminOnly, itemHandler.Delete)
	items.Get("/:itemId", itemHandler.GetByID)

	// Inventory
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Put("/update", idem, inventoryHandler.Update)
	inv.Put("/recordSales", idem, inventoryHandler.RecordSales)

	// Activity (lectura)
	act := api.Group("/activity")
	activityHandler := NewActivityHandler(deps.ActivityUC)
	act.Get("/:itemId", activityHandler.List)
	act.Get("/:itemId/report", activityHandler.Report)
}
