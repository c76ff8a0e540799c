package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stellar-burgers/internal/application/receipt"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	State    *state.Container
	Receipts *receipt.UseCase
	Logger   *logger.Logger
}

// Router registra las rutas de la API local.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	stateHandler := NewStateHandler(deps.State)
	api.Get("/state", stateHandler.Snapshot)
	api.Post("/modals/:name/:action", stateHandler.Modal)

	// Catálogo y constructor (público)
	builderHandler := NewBuilderHandler(deps.State)
	api.Get("/ingredients", builderHandler.Ingredients)
	api.Post("/ingredients/refresh", builderHandler.RefreshIngredients)
	builder := api.Group("/builder")
	builder.Get("/", builderHandler.Get)
	builder.Delete("/", builderHandler.Clear)
	builder.Post("/ingredients", builderHandler.Add)
	builder.Delete("/ingredients/:placementId", builderHandler.Remove)
	builder.Post("/move", builderHandler.Move)

	// Pedidos: el feed y los detalles son públicos; enviar exige sesión
	orderHandler := NewOrderHandler(deps.State, deps.Receipts, deps.Logger)
	orders := api.Group("/orders")
	orders.Post("/", ProtectedRoute(false, deps.State), orderHandler.Place)
	orders.Post("/confirmation/dismiss", orderHandler.Dismiss)
	orders.Get("/feed", orderHandler.Feed)
	orders.Get("/feed/stats", orderHandler.Stats)
	orders.Get("/archive", orderHandler.Archive)
	orders.Delete("/current", orderHandler.ClearCurrent)
	orders.Get("/:number", orderHandler.Details)
	orders.Get("/:number/receipt", orderHandler.Receipt)

	// Auth: login, registro y recuperación solo sin sesión
	authHandler := NewAuthHandler(deps.State)
	onlyUnAuth := ProtectedRoute(true, deps.State)
	authGroup := api.Group("/auth")
	authGroup.Get("/session", authHandler.Status)
	authGroup.Delete("/error", authHandler.ClearError)
	authGroup.Post("/login", onlyUnAuth, authHandler.Login)
	authGroup.Post("/register", onlyUnAuth, authHandler.Register)
	authGroup.Post("/forgot-password", onlyUnAuth, authHandler.ForgotPassword)
	authGroup.Post("/reset-password", onlyUnAuth, authHandler.ResetPassword)
	authGroup.Post("/logout", ProtectedRoute(false, deps.State), authHandler.Logout)

	// Perfil (protegido)
	profile := api.Group("/profile", ProtectedRoute(false, deps.State))
	profile.Get("/", authHandler.Profile)
	profile.Patch("/", authHandler.UpdateProfile)
	profile.Get("/orders", orderHandler.ProfileOrders)
}
