package server

import (
	"context"
	"net/http"
	"time"

	"studiodesk/internal/auth"
	"studiodesk/internal/catalog"
	"studiodesk/internal/config"
	"studiodesk/internal/ledger"
	"studiodesk/internal/reservation"
	"studiodesk/internal/schedule"
	"studiodesk/internal/subscription"
	"studiodesk/internal/treasury"
	"studiodesk/internal/user"

	"github.com/gin-gonic/gin"
)

// Services are the domain services the HTTP surface exposes.
type Services struct {
	Users         user.Service
	Catalog       catalog.Service
	Schedules     schedule.Service
	Subscriptions subscription.Service
	Reservations  reservation.Service
	Ledger        ledger.Service
	Treasury      treasury.Service
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, svc Services, checks ...HealthCheck) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		corsMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	registerRoutes(router, cfg.JWTSecret, svc)

	router.GET("/health", Health(checks...))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	userHandler := user.NewHandler(svc.Users)
	catalogHandler := catalog.NewHandler(svc.Catalog)
	scheduleHandler := schedule.NewHandler(svc.Schedules)
	subscriptionHandler := subscription.NewHandler(svc.Subscriptions)
	reservationHandler := reservation.NewHandler(svc.Reservations)
	ledgerHandler := ledger.NewHandler(svc.Ledger)
	treasuryHandler := treasury.NewHandler(svc.Treasury)

	public := router.Group("/")
	{
		public.POST("/auth/register", userHandler.Register)
		public.POST("/auth/login", userHandler.Login)
		public.POST("/auth/refresh", userHandler.RefreshToken)
		public.GET("/packs/active", catalogHandler.ListActive)
		public.GET("/schedules", scheduleHandler.ListActive)
		public.GET("/planning/availability", reservationHandler.AvailabilityMap)
		public.GET("/planning/availability/:scheduleId", reservationHandler.Availability)
	}

	authMiddleware := auth.AuthMiddleware(jwtSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me", userHandler.UpdateMe)
		protected.GET("/client/history", userHandler.GetMe)
		protected.POST("/subscriptions/request", subscriptionHandler.Request)
		protected.GET("/subscriptions/:id/payments", ledgerHandler.Payments)
		protected.GET("/subscriptions/:id/credit", ledgerHandler.Credit)
		protected.POST("/reservations", reservationHandler.Book)
		protected.DELETE("/reservations/:id", reservationHandler.Cancel)
		protected.GET("/reservations/me", reservationHandler.ListMine)
	}

	staff := router.Group("/")
	staff.Use(authMiddleware, auth.RequireStaff())
	{
		staff.GET("/subscriptions/pending", subscriptionHandler.ListPending)
		staff.PUT("/admin/subscriptions/validate/:id", subscriptionHandler.Validate)
		staff.PUT("/admin/subscriptions/:id/force-activate", subscriptionHandler.ForceActivate)
		staff.POST("/admin/subscriptions/walk-in", subscriptionHandler.SellWalkIn)
		staff.POST("/admin/payments", subscriptionHandler.RecordPayment)
		staff.POST("/admin/clients", userHandler.CreateClient)
		staff.GET("/admin/clients", userHandler.ListClients)
		staff.GET("/admin/clients/:id", userHandler.ClientDetail)
		staff.GET("/admin/sessions/:date/:scheduleId/participants", reservationHandler.Participants)
		staff.GET("/admin/stats", userHandler.Stats)
		staff.GET("/admin/schedules", scheduleHandler.ListAll)
		staff.GET("/treasury", treasuryHandler.List)
		staff.POST("/treasury", treasuryHandler.Record)
		staff.PUT("/treasury/:id/cash", treasuryHandler.MarkCleared)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/packs", catalogHandler.ListAll)
		admin.POST("/packs", catalogHandler.Create)
		admin.PUT("/packs/:code", catalogHandler.Update)
		admin.POST("/packs/:code/archive", catalogHandler.Archive)
		admin.DELETE("/packs/:code", catalogHandler.Delete)
		admin.POST("/schedules", scheduleHandler.Create)
		admin.PUT("/schedules/:id", scheduleHandler.Update)
		admin.DELETE("/schedules/:id", scheduleHandler.Delete)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
