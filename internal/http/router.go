package http

import (
	"net/http"
	"time"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/media"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Auth           *service.AuthService
	Products       *service.ProductService
	Cart           *service.CartService
	Orders         *service.OrderService
	Reviews        *service.ReviewService
	Uploader       *media.Uploader
	UploadDir      string
	RequestTimeout time.Duration
}

func NewRouter(deps Deps) chi.Router {
	authHandler := NewAuthHandler(deps.Auth)
	productHandler := NewProductHandler(deps.Products)
	cartHandler := NewCartHandler(deps.Cart)
	orderHandler := NewOrderHandler(deps.Orders)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Auth)
	uploadHandler := NewUploadHandler(deps.Uploader)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Locally stored product images
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(deps.UploadDir)))
	r.Get("/static/*", fileServer.ServeHTTP)

	authenticated := Authenticate(deps.Auth)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(authenticated).Get("/me", authHandler.Me)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
			r.Get("/{id}/reviews", reviewHandler.ListByProduct)
			r.With(authenticated).Post("/{id}/reviews", reviewHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(authenticated, RequireAdmin)
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
				r.Put("/{id}/stock", productHandler.SetStock)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{itemID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{itemID}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/", orderHandler.Create)
			r.Get("/", orderHandler.ListMine)
			r.Get("/{id}", orderHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Put("/{id}/status", orderHandler.UpdateStatus)
				r.Delete("/{id}", orderHandler.Delete)
			})
		})

		r.With(authenticated, RequireAdmin).Get("/admin/orders", orderHandler.ListAll)
		r.With(authenticated).Delete("/reviews/{id}", reviewHandler.Delete)
		r.With(authenticated, RequireAdmin).Post("/uploads", uploadHandler.Upload)
	})

	return r
}
