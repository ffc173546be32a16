package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/coursehub/coursehub/internal/auth"
	appcache "github.com/coursehub/coursehub/internal/cache"
	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/http/handlers"
	"github.com/coursehub/coursehub/internal/http/middlewares"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/coursehub/coursehub/internal/repo/postgres"
	"github.com/coursehub/coursehub/internal/service/admin"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const maxBodyBytes = 1 << 20

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(prom.GinHandleMiddleware())

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	profilesRepo := postgres.NewProfilesRepo(pool, prom)
	coursesRepo := postgres.NewCoursesRepo(pool, prom)
	categoriesRepo := postgres.NewCategoriesRepo(pool, prom)
	analyticsRepo := postgres.NewAnalyticsRepo(pool, prom)
	refreshRepo := postgres.NewRefreshTokensRepo(pool, prom)

	// caches
	catalogCache := appcache.New(cfg.CatalogCacheTTL)
	snapshotCache := appcache.NewAnalyticsCache(rdb, cfg.AnalyticsCacheTTL)

	adminSvc := admin.NewService(
		usersRepo,
		profilesRepo,
		coursesRepo,
		categoriesRepo,
		analyticsRepo,
		snapshotCache,
		catalogCache,
		log,
	)

	jwtManager := auth.NewManager(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLDays)*24*time.Hour,
	)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, refreshRepo, cfg)
	adminUsers := handlers.NewAdminUsersHandler(adminSvc)
	adminCourses := handlers.NewAdminCoursesHandler(adminSvc)
	categories := handlers.NewCategoriesHandler(adminSvc)
	analyticsHandler := handlers.NewAnalyticsHandler(adminSvc)
	catalog := handlers.NewCatalogHandler(coursesRepo, catalogCache)

	authMW := middlewares.NewAuthMiddleware(jwtManager)

	loginLimiter := middlewares.NewRateLimiter(
		cfg.LoginRateLimit,
		time.Duration(cfg.LoginRateWindowSec)*time.Second,
	)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// public catalog
	r.GET("/courses", catalog.List)
	r.GET("/courses/:courseId", catalog.Get)
	r.GET("/categories", categories.List)

	adminGroup := r.Group("/admin", authMW.RequireAuth(), authMW.RequireAccountType("Admin"))
	{
		adminGroup.GET("/users", adminUsers.List)
		adminGroup.POST("/users", adminUsers.Create)
		adminGroup.PUT("/users/:userId", adminUsers.Update)
		adminGroup.DELETE("/users/:userId", adminUsers.Delete)
		adminGroup.PUT("/users/:userId/toggle-status", adminUsers.ToggleStatus)

		adminGroup.GET("/courses", adminCourses.List)
		adminGroup.PUT("/courses/:courseId/toggle-visibility", adminCourses.ToggleVisibility)
		adminGroup.PUT("/courses/:courseId/approve", adminCourses.Approve)
		adminGroup.PUT("/courses/:courseId/set-type", adminCourses.SetType)
		adminGroup.DELETE("/courses/:courseId", adminCourses.Delete)

		adminGroup.POST("/categories", categories.Create)

		adminGroup.GET("/analytics", analyticsHandler.Get)
	}

	return r
}
