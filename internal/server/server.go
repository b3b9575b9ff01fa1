package server

import (
	"context"
	"net/http"

	"rocksalt/internal/auth"
	"rocksalt/internal/band"
	"rocksalt/internal/config"
	"rocksalt/internal/matching"
	"rocksalt/internal/payments"
	"rocksalt/internal/user"
	"rocksalt/internal/venue"
	"rocksalt/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, cache *redis.Client) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	bandRepo := band.NewRepository(db)
	venueRepo := venue.NewRepository(db)
	userRepo := user.NewRepository(db)

	walletSvc := wallet.NewService(wallet.NewRepository(db), bandRepo, venueRepo, userRepo)
	matchingSvc := matching.NewService(bandRepo, venueRepo, cache)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	bandHandler := band.NewHandler(db)
	venueHandler := venue.NewHandler(db)
	walletHandler := wallet.NewHandler(walletSvc)
	matchingHandler := matching.NewHandler(matchingSvc)
	paymentsHandler := payments.NewHandler(walletSvc, cfg.PaymentWebhookSecret)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.POST("/webhooks/payments", paymentsHandler.HandleEvent)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/bands", bandHandler.ListBands)
		protected.POST("/bands/:bandID/claim", bandHandler.ClaimBand)
		protected.POST("/bands/:bandID/riders", bandHandler.CreateRider)
		protected.GET("/bands/:bandID/riders", bandHandler.ListRiders)
		protected.PATCH("/riders/:riderID", bandHandler.UpdateRider)
		protected.POST("/riders/:riderID/publish", bandHandler.PublishRider)
		protected.POST("/riders/:riderID/withdraw", bandHandler.WithdrawRider)

		protected.GET("/venues", venueHandler.ListVenues)
		protected.POST("/venues/:venueID/claim", venueHandler.ClaimVenue)
		protected.PUT("/venues/:venueID/capabilities", venueHandler.UpsertCapability)
		protected.GET("/venues/:venueID/capabilities", venueHandler.GetCapability)

		protected.GET("/matches", matchingHandler.GetMatches)

		protected.GET("/wallets/:ownerKind/:ownerID", walletHandler.GetBalance)
		protected.POST("/wallets/:ownerKind/:ownerID/spend", walletHandler.Spend)
		protected.GET("/wallets/:ownerKind/:ownerID/transactions", walletHandler.ListTransactions)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/bands", bandHandler.CreateBand)
		admin.POST("/venues", venueHandler.CreateVenue)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		},
		db:     db,
		config: cfg,
	}
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
