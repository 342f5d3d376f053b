package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/coderun23-cloud/gym-manegement-system/internal/auth"
	"github.com/coderun23-cloud/gym-manegement-system/internal/config"
	"github.com/coderun23-cloud/gym-manegement-system/internal/email"
	"github.com/coderun23-cloud/gym-manegement-system/internal/gateway"
	"github.com/coderun23-cloud/gym-manegement-system/internal/membership"
	"github.com/coderun23-cloud/gym-manegement-system/internal/payment"
	"github.com/coderun23-cloud/gym-manegement-system/internal/plan"
	"github.com/coderun23-cloud/gym-manegement-system/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	RegisterCustomValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	planHandler := plan.NewHandler(db)

	membershipRepo := membership.NewRepository(db)
	planRepo := plan.NewRepository(db)
	membershipSvc := membership.NewService(membershipRepo, planRepo)
	membershipHandler := membership.NewHandler(membershipSvc, emailService)

	chapa := gateway.NewClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey)
	paymentSvc := payment.NewService(
		payment.NewRepository(db),
		membershipRepo,
		planRepo,
		user.NewRepository(db),
		chapa,
		emailService,
		payment.Config{
			CallbackURL: cfg.PublicBaseURL + "/payments/callback",
			ReturnURL:   cfg.PaymentReturnURL,
			Currency:    "ETB",
		},
	)
	paymentHandler := payment.NewHandler(paymentSvc)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	// The gateway calls this endpoint; it carries no bearer token. It is
	// rate-limited and the tx_ref it names is re-verified upstream, so an
	// unauthenticated caller cannot forge an outcome.
	router.GET("/payments/callback", RateLimitMiddleware(5, 10), paymentHandler.Callback)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/payments", paymentHandler.CreatePayment)
		protected.GET("/memberships/me", membershipHandler.MyMembership)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/plans", planHandler.CreatePlan)
		admin.GET("/plans", planHandler.ListPlans)
		admin.GET("/plans/:planID", planHandler.GetPlan)
		admin.PUT("/plans/:planID", planHandler.UpdatePlan)
		admin.DELETE("/plans/:planID", planHandler.DeletePlan)

		admin.GET("/memberships", membershipHandler.ListMemberships)
		admin.GET("/memberships/:membershipID", membershipHandler.GetMembership)
		admin.POST("/memberships", membershipHandler.AssignMembership)
		admin.PUT("/memberships/:membershipID/renew", membershipHandler.RenewMembership)
		admin.POST("/memberships/:membershipID/cancel", membershipHandler.CancelMembership)
		admin.GET("/memberships/:membershipID/payments", paymentHandler.ListForMembership)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
