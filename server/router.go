package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satheesh067/Flight-Price-Prediction/config"
	"github.com/satheesh067/Flight-Price-Prediction/features"
	"github.com/satheesh067/Flight-Price-Prediction/handlers"
	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/middleware"
	"github.com/satheesh067/Flight-Price-Prediction/predictor"
	"github.com/satheesh067/Flight-Price-Prediction/services"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

type Services struct {
	Auth        *services.AuthService
	Predictions *services.PredictionService
	Alerts      *services.AlertService
	Settings    *services.SettingsService
	Cache       *services.CacheService
}

// WireServices builds every service over one database handle.
func WireServices(cfg *config.Config, db *gorm.DB, model predictor.Predictor, cache *services.CacheService, log *logger.Logger) Services {
	log.Info("Wiring services...")
	users := store.NewUserStore(db)
	history := store.NewHistoryStore(db, log)
	alerts := store.NewAlertStore(db, log)
	return Services{
		Auth:        services.NewAuthService(cfg.JWT, users, log),
		Predictions: services.NewPredictionService(features.DefaultEncoder(), model, history, alerts, cache, log),
		Alerts:      services.NewAlertService(alerts, cache, log),
		Settings:    services.NewSettingsService(users),
		Cache:       cache,
	}
}

func NewRouter(cfg *config.Config, svc Services, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.SetupCORS(cfg.CORS),
		middleware.NewAuthMiddleware(log, svc.Auth).RequireAuth(),
	)

	authHandler := handlers.NewAuthHandler(svc.Auth)
	predictionHandler := handlers.NewPredictionHandler(svc.Predictions, svc.Settings)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)
	alertHandler := handlers.NewAlertHandler(svc.Alerts)

	router.GET("/", handlers.Home(svc.Predictions.Encoder()))
	router.GET("/health", handlers.Health)
	if cfg.Server.StaticDir != "" {
		router.Static("/static", cfg.Server.StaticDir)
	}

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	router.POST("/predict", predictionHandler.Predict)
	router.GET("/history", predictionHandler.History)
	router.GET("/export", predictionHandler.Export)
	router.GET("/analytics", predictionHandler.Analytics)
	router.GET("/route-analytics", predictionHandler.RouteAnalytics)

	router.GET("/settings", settingsHandler.Get)
	router.POST("/settings", settingsHandler.Update)

	router.GET("/alerts", alertHandler.List)
	router.POST("/alerts", alertHandler.Create)
	router.PATCH("/alerts/:id", alertHandler.Update)
	router.DELETE("/alerts/:id", alertHandler.Delete)

	router.GET("/ws/predictions", handlers.LiveWebSocket(svc.Cache, log))

	return router
}
