package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/prasetya/requisition-tracker/internal/auth"
	"github.com/prasetya/requisition-tracker/internal/category"
	"github.com/prasetya/requisition-tracker/internal/inventory"
	"github.com/prasetya/requisition-tracker/internal/report"
	"github.com/prasetya/requisition-tracker/internal/requisition"
	"github.com/prasetya/requisition-tracker/internal/transport/middleware"
	"github.com/prasetya/requisition-tracker/internal/transport/swagger"
	"github.com/prasetya/requisition-tracker/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Category    *category.Handler
	Inventory   *inventory.Handler
	Requisition *requisition.Handler
	Report      *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	staffOnly := auth.RequireStaff(logger)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/dashboard", h.Report.Dashboard)

			pr.Get("/categories", h.Category.GetCategories)

			pr.Route("/equipment", func(er chi.Router) {
				er.Get("/", h.Inventory.ListEquipment)
				er.Get("/search", h.Inventory.SearchEquipment)
				er.Get("/{id}", h.Inventory.GetEquipment)

				// Inventory management is staff only
				er.Group(func(mr chi.Router) {
					mr.Use(staffOnly)
					mr.Post("/", h.Inventory.CreateEquipment)
					mr.Patch("/{id}", h.Inventory.UpdateEquipment)
					mr.Post("/{id}/image", h.Inventory.UploadEquipmentImage)
					mr.Delete("/{id}", h.Inventory.DeleteEquipment)
				})
			})

			pr.Route("/requisitions", func(rr chi.Router) {
				rr.Post("/", h.Requisition.CreateRequisition)
				rr.Get("/my", h.Requisition.MyRequisitions)
				rr.Get("/{id}", h.Requisition.GetRequisition)

				// Review routes are staff only
				rr.Group(func(mr chi.Router) {
					mr.Use(staffOnly)
					mr.Get("/", h.Requisition.AllRequisitions)
					mr.Patch("/{id}/approve", h.Requisition.ApproveRequisition)
					mr.Patch("/{id}/reject", h.Requisition.RejectRequisition)
					mr.Patch("/{id}/receive", h.Requisition.ReceiveRequisition)
				})
			})

			// Staff only admin surface
			pr.Group(func(mr chi.Router) {
				mr.Use(staffOnly)

				mr.Post("/categories", h.Category.CreateCategory)
				mr.Patch("/categories/{id}", h.Category.UpdateCategory)
				mr.Delete("/categories/{id}", h.Category.DeleteCategory)

				mr.Route("/users", func(ur chi.Router) {
					ur.Get("/", h.User.ListUsers)
					ur.Post("/", h.User.CreateUser)
					ur.Patch("/{id}", h.User.UpdateUser)
					ur.Delete("/{id}", h.User.DeleteUser)
				})

				mr.Get("/reports/requisitions", h.Report.RequisitionReport)
			})
		})
	})
}
