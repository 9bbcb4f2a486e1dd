package routes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/database"
	"github.com/startrack/intake-backend/internal/handlers"
	"github.com/startrack/intake-backend/internal/middleware"
	"github.com/startrack/intake-backend/internal/models"
	"github.com/startrack/intake-backend/internal/services"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	handlers.RegisterValidation()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(slog.Default()))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	router.GET("/health", func(c *gin.Context) {
		if !database.Ping(db) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db_connected": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db_connected": true})
	})

	// Initialize services
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, cfg)
	projectService := services.NewProjectService(db, cfg, emailService)
	userService := services.NewUserService(db, cfg, authService, emailService)
	roleService := services.NewRoleService(db)
	documentService := services.NewDocumentService(cfg)
	oauthService := services.NewOAuthService(cfg, authService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, documentService)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	oauthHandler := handlers.NewOAuthHandler(oauthService, cfg.OAuth2RedirectURI)

	// Tokens are always read when present; REQUIRE_AUTH decides whether
	// they are mandatory.
	identify := middleware.OptionalAuthMiddleware(authService)
	anyUser := []gin.HandlerFunc{identify}
	adminOnly := []gin.HandlerFunc{identify}
	if cfg.RequireAuth {
		anyUser = []gin.HandlerFunc{middleware.AuthMiddleware(authService)}
		adminOnly = []gin.HandlerFunc{middleware.AuthMiddleware(authService), middleware.RequireRole(models.RoleAdmin)}
	}

	base := router.Group(cfg.BasePath)
	{
		auth := base.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.GET("/me", middleware.AuthMiddleware(authService), authHandler.Me)
		}

		oauth := base.Group("/oauth2")
		{
			oauth.GET("/authorize/:provider", oauthHandler.Authorize)
			oauth.GET("/callback/:provider", oauthHandler.Callback)
		}

		projects := base.Group("/projectCreate", anyUser...)
		{
			projects.GET("/allData", projectHandler.AllData)
			projects.GET("/allDatalatest", projectHandler.AllDataLatest)
			projects.GET("/allDataHistroy/:name", projectHandler.AllDataHistory)
			projects.POST("/addToProjectCreate/:email", projectHandler.Create)
			projects.GET("/delete/:id", projectHandler.Delete)
			projects.DELETE("/delete/:id", projectHandler.Delete)
			projects.GET("/permUpdate/:id/:applyValue", projectHandler.UpdateStatus)
			projects.PUT("/permUpdate/:id/:applyValue", projectHandler.UpdateStatus)
			projects.GET("/export/:id", projectHandler.Export)

			projects.GET("/allGroupMember/:id", handlers.ChildRows[models.GroupMemberRow](projectService))
			projects.GET("/allOutput/:id", handlers.ChildRows[models.OutputRow](projectService))
			projects.GET("/allCollaboration/:id", handlers.ChildRows[models.CollaborationRow](projectService))
			projects.GET("/allExternalAdvisor/:id", handlers.ChildRows[models.ExternalAdvisorRow](projectService))
			projects.GET("/allSubcontractor/:id", handlers.ChildRows[models.SubContractorRow](projectService))
			projects.GET("/allPPI/:id", handlers.ChildRows[models.PpiRow](projectService))
			projects.GET("/allOTR/:id", handlers.ChildRows[models.OtrRow](projectService))
			projects.GET("/allFunding/:id", handlers.ChildRows[models.FundingRow](projectService))
			projects.GET("/allFundingOverview/:id", handlers.ChildRows[models.FundingOverviewRow](projectService))
		}

		users := base.Group("/sybeUser", adminOnly...)
		{
			users.GET("/all", userHandler.All)
			users.GET("/userData", userHandler.UserData)
			users.GET("/:id", userHandler.Get)
			users.GET("/delete/:email", userHandler.Delete)
			users.DELETE("/delete/:email", userHandler.Delete)
			users.GET("/activate/:email", userHandler.Activate)
			users.PUT("/activate/:email", userHandler.Activate)
			users.GET("/resetPassword/:email", userHandler.ResetPassword)
			users.PUT("/resetPassword/:email", userHandler.ResetPassword)
			users.GET("/deleteRequest/:email", userHandler.DeleteRequest)
			users.PUT("/deleteRequest/:email", userHandler.DeleteRequest)
			users.GET("/roleUpdate/:email/:roleList", userHandler.UpdateRoles)
			users.PUT("/roleUpdate/:email/:roleList", userHandler.UpdateRoles)
			users.POST("/passwordUpdate/:id", userHandler.UpdatePassword)
			users.POST("/profileUpdate/:id", userHandler.UpdateProfile)
		}

		roles := base.Group("/role", adminOnly...)
		{
			roles.GET("/delete/:id", roleHandler.Delete)
			roles.DELETE("/delete/:id", roleHandler.Delete)
			roles.GET("/details/:id", roleHandler.Details)
			roles.GET("/all", roleHandler.All)
			roles.PUT("/update/:id", roleHandler.Update)
		}
	}

	return router
}

// SeedAdminUser creates the configured admin account if it does not exist
func SeedAdminUser(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	authService := services.NewAuthService(db, cfg)
	created, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin user created", "email", cfg.AdminEmail)
	}
	return nil
}
