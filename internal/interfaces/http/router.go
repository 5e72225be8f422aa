package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth      *AuthHandler
	Import    *ImportHandler
	Catalog   *CatalogHandler
	Customers *CustomerHandler
	Orders    *OrderHandler
	Dashboard *DashboardHandler
	Sessions  sessionReader
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", deps.Auth.Login)
	authGroup.Delete("/login/:id", deps.Auth.CancelLogin)
	authGroup.Post("/company", deps.Auth.SelectCompany)

	// Rutas protegidas (Bearer Token de la sesión abierta en el dispositivo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireSession(deps.Sessions))
	protected.Post("/auth/logout", deps.Auth.Logout)

	// Importación inicial
	protected.Post("/import", deps.Import.Start)
	protected.Get("/import/status", deps.Import.Status)

	// Caché de referencia
	protected.Get("/payment-methods", deps.Catalog.PaymentMethods)
	protected.Get("/cities", deps.Catalog.Cities)
	protected.Get("/price-tables", deps.Catalog.PriceTables)
	protected.Post("/catalog/refresh", deps.Catalog.Refresh)
	protected.Get("/postal-codes/:cep", deps.Catalog.PostalCode)

	// Cartera de clientes
	customers := protected.Group("/customers")
	customers.Get("/", deps.Customers.List)
	customers.Post("/", deps.Customers.Create)
	customers.Post("/sync", deps.Customers.Sync)
	customers.Get("/:key", deps.Customers.GetByKey)
	customers.Put("/:key", deps.Customers.Update)

	// Pedido en curso y pedidos guardados
	orders := protected.Group("/orders")
	orders.Post("/draft", deps.Orders.StartDraft)
	orders.Get("/draft", deps.Orders.GetDraft)
	orders.Post("/draft/items/:productID/increment", deps.Orders.Increment)
	orders.Post("/draft/items/:productID/decrement", deps.Orders.Decrement)
	orders.Put("/draft/items/:productID", deps.Orders.SetQuantity)
	orders.Get("/draft/checkout", deps.Orders.Checkout)
	orders.Patch("/draft/checkout", deps.Orders.UpdateCheckout)
	orders.Post("/", deps.Orders.Save)
	orders.Get("/:key/pdf", deps.Orders.Receipt)

	protected.Get("/dashboard", deps.Dashboard.Get)
}
