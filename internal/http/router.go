package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/warehouse_pulse/backend/internal/config"
	"github.com/warehouse_pulse/backend/internal/db"
	"github.com/warehouse_pulse/backend/internal/export"
	"github.com/warehouse_pulse/backend/internal/http/handlers"
	"github.com/warehouse_pulse/backend/internal/http/middleware"
	"github.com/warehouse_pulse/backend/internal/service"

	_ "github.com/warehouse_pulse/backend/docs"
)

func Router(cfg config.Config, store *db.Store, out *export.Writer, extractor *service.ExtractionService, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:      store,
		Out:        out,
		Extractor:  extractor,
		Validator:  validator.New(),
		Logger:     logger,
		AdminKey:   cfg.AdminKey,
		RunTimeout: cfg.RunTimeout,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/dashboard-data", h.DashboardData)
		api.GET("/dashboard-bflow", h.DashboardBFlow)
		api.GET("/dashboard-lines", h.DashboardLines)
		api.GET("/dashboard-hu", h.DashboardHU)
		api.GET("/user-stats", h.UserStats)
		api.GET("/runs/latest", h.RunsLatest)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/runs", h.RunTrigger)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
