package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lapulperia/lapulperia-backend/api/controllers"
	apimw "github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/internal/ads"
	"github.com/lapulperia/lapulperia-backend/internal/auth"
	"github.com/lapulperia/lapulperia-backend/internal/jobs"
	"github.com/lapulperia/lapulperia-backend/internal/messages"
	"github.com/lapulperia/lapulperia-backend/internal/notifications"
	"github.com/lapulperia/lapulperia-backend/internal/orders"
	"github.com/lapulperia/lapulperia-backend/internal/products"
	"github.com/lapulperia/lapulperia-backend/internal/realtime"
	"github.com/lapulperia/lapulperia-backend/internal/reviews"
	"github.com/lapulperia/lapulperia-backend/internal/services"
	"github.com/lapulperia/lapulperia-backend/internal/stores"
	"github.com/lapulperia/lapulperia-backend/pkg/auth/session"
	"github.com/lapulperia/lapulperia-backend/pkg/config"
	"github.com/lapulperia/lapulperia-backend/pkg/db"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
	"github.com/lapulperia/lapulperia-backend/pkg/redis"
)

// Deps collects everything the router wires together.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    *db.Client
	Redis *redis.Client

	Sessions session.Resolver

	Auth          auth.Service
	Stores        stores.Service
	Products      products.Service
	Orders        orders.Service
	Reviews       reviews.Service
	Jobs          jobs.Service
	Services      services.Service
	Messages      messages.Service
	Ads           ads.Service
	Notifications notifications.Service

	Registry  *realtime.Registry
	WSHandler *realtime.Handler
}

// New assembles the HTTP surface: the REST API under /api, the order
// websocket, health probes, and metrics.
func New(deps Deps) http.Handler {
	logg := deps.Logger
	sessionCfg := deps.Config.Session

	r := chi.NewRouter()
	r.Use(apimw.Recoverer(logg))
	r.Use(apimw.RequestID(logg))
	r.Use(apimw.Logging(logg))
	r.Use(apimw.CORS(deps.Config.CORS))

	requireAuth := apimw.Auth(deps.Sessions, sessionCfg.CookieName, logg)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/session", controllers.Login(deps.Auth, sessionCfg, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/auth/me", controllers.Me(deps.Auth, logg))
			r.Post("/auth/logout", controllers.Logout(deps.Auth, sessionCfg, logg))
			r.Post("/auth/set-user-type", controllers.SetUserType(deps.Auth, logg))
		})

		r.Get("/pulperias", controllers.ListStores(deps.Stores, logg))
		r.Get("/pulperias/{pulperiaID}", controllers.GetStore(deps.Stores, logg))
		r.Get("/pulperias/{pulperiaID}/products", controllers.StoreProducts(deps.Products, logg))
		r.Get("/pulperias/{pulperiaID}/reviews", controllers.StoreReviews(deps.Reviews, logg))
		r.Get("/pulperias/{pulperiaID}/jobs", controllers.StoreJobs(deps.Jobs, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/pulperias", controllers.CreateStore(deps.Stores, logg))
			r.Put("/pulperias/{pulperiaID}", controllers.UpdateStore(deps.Stores, logg))
			r.Get("/my/pulperias", controllers.MyStores(deps.Stores, logg))
			r.Post("/pulperias/{pulperiaID}/reviews", controllers.CreateReview(deps.Reviews, logg))
		})

		r.Get("/products", controllers.SearchProducts(deps.Products, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.Products, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/products", controllers.CreateProduct(deps.Products, logg))
			r.Put("/products/{productID}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/products/{productID}", controllers.DeleteProduct(deps.Products, logg))
			r.Put("/products/{productID}/availability", controllers.ToggleProductAvailability(deps.Products, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/orders/completed", controllers.CompletedOrders(deps.Orders, logg))
			r.Get("/orders/stats", controllers.OrderStats(deps.Orders, logg))
			r.Put("/orders/{orderID}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		})

		r.Get("/jobs", controllers.ListJobs(deps.Jobs, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/jobs", controllers.CreateJob(deps.Jobs, logg))
			r.Delete("/jobs/{jobID}", controllers.DeleteJob(deps.Jobs, logg))
			r.Post("/jobs/{jobID}/apply", controllers.ApplyToJob(deps.Jobs, logg))
			r.Get("/jobs/{jobID}/applications", controllers.JobApplications(deps.Jobs, logg))
		})

		r.Get("/services", controllers.ListServices(deps.Services, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/services", controllers.CreateService(deps.Services, logg))
			r.Delete("/services/{serviceID}", controllers.DeleteService(deps.Services, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/messages", controllers.ListMessages(deps.Messages, logg))
			r.Post("/messages", controllers.SendMessage(deps.Messages, logg))
		})

		r.Get("/ads/plans", controllers.AdPlans(deps.Ads, logg))
		r.Get("/ads/featured", controllers.FeaturedStores(deps.Ads, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/ads/my", controllers.MyAds(deps.Ads, logg))
			r.Post("/ads", controllers.CreateAd(deps.Ads, logg))
			r.Put("/ads/{adID}/activate", controllers.ActivateAd(deps.Ads, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/notifications", controllers.NotificationFeed(deps.Notifications, logg))
		})

		r.Get("/ws/status/{userID}", controllers.WSStatus(deps.Registry, logg))
	})

	if deps.WSHandler != nil {
		r.Get("/ws/orders/{userID}", deps.WSHandler.ServeOrders)
	}

	r.Get("/health/live", controllers.Liveness())
	r.Get("/health/ready", controllers.Readiness(deps.DB, deps.Redis, logg))
	r.Handle("/metrics", promhttp.Handler())

	return r
}
