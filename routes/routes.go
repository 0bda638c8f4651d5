package routes

import (
	"time"

	"collabuu-backend/config"
	"collabuu-backend/firebase"
	"collabuu-backend/handlers"
	"collabuu-backend/identity"
	"collabuu-backend/ledger"
	"collabuu-backend/metrics"
	"collabuu-backend/middleware"
	"collabuu-backend/models"
	"collabuu-backend/redemption"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything SetupRoutes wires into handlers.
type Deps struct {
	DB           *gorm.DB
	Gate         *identity.Gate
	Storage      firebase.StorageClient
	AuthProvider string
	VisitPoints  map[models.VisitType]int
	ScanLimiter  *middleware.RateLimiter
	// Now is the resolver clock; nil means time.Now.
	Now func() time.Time
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	catalog := &redemption.GormCatalog{DB: deps.DB}
	l := ledger.New(deps.DB)
	service := redemption.NewService(deps.DB, redemption.NewResolver(catalog, deps.Now), l, deps.VisitPoints)

	authHandler := &handlers.AuthHandler{DB: deps.DB}
	scanHandler := &handlers.ScanHandler{Service: service}
	rewardHandler := &handlers.RewardHandler{DB: deps.DB, Ledger: l}
	ledgerHandler := &handlers.LedgerHandler{Ledger: l}
	profileHandler := &handlers.ProfileHandler{DB: deps.DB, Ledger: l}
	businessHandler := &handlers.BusinessHandler{DB: deps.DB, Catalog: catalog, Storage: deps.Storage}

	limit := func(c *gin.Context) { c.Next() }
	if deps.ScanLimiter != nil {
		limit = deps.ScanLimiter.Middleware()
	}

	// Public routes
	api := r.Group("/api")
	{
		if deps.AuthProvider == config.AuthProviderJWT {
			api.POST("/auth/register", authHandler.Register)
			api.POST("/auth/login", authHandler.Login)
		}

		api.POST("/scan/resolve", limit, scanHandler.Resolve)
		api.GET("/rewards", rewardHandler.GetRewards)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Gate))
	{
		protected.GET("/me", profileHandler.GetMe)
		protected.GET("/favorites", profileHandler.GetFavorites)
		protected.GET("/ledger/balance", ledgerHandler.GetBalance)
		protected.GET("/ledger/entries", ledgerHandler.GetEntries)
	}

	// Scanning and spending are for the people redeeming codes
	scanners := protected.Group("")
	scanners.Use(middleware.RequireRole(models.RoleCustomer, models.RoleInfluencer))
	{
		scanners.POST("/scan/claim", limit, scanHandler.Claim)
		scanners.POST("/scan/visit", limit, scanHandler.Visit)
		scanners.POST("/scan/favorite", limit, scanHandler.Favorite)
		scanners.POST("/rewards/redeem", rewardHandler.Redeem)
	}

	business := protected.Group("/business")
	business.Use(middleware.RequireRole(models.RoleBusiness))
	{
		business.POST("/deals", businessHandler.CreateDeal)
		business.GET("/deals", businessHandler.GetDeals)
		business.DELETE("/deals/:id", businessHandler.DeleteDeal)
		business.POST("/visit-codes", businessHandler.CreateVisitCode)
		business.POST("/favorite-codes", businessHandler.CreateFavoriteCode)
		business.POST("/rewards", businessHandler.CreateReward)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
}
