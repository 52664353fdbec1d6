package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayrent/internal/infra/config"
	"stayrent/internal/infra/obs"
)

type CalendarHTTP interface {
	Month(c *gin.Context)
	Quote(c *gin.Context)
}

type SessionHTTP interface {
	Start(c *gin.Context)
	View(c *gin.Context)
	SelectCheckIn(c *gin.Context)
	SelectCheckOut(c *gin.Context)
	Picker(c *gin.Context)
	ShowMonth(c *gin.Context)
	Clear(c *gin.Context)
}

type Handlers struct {
	Calendar CalendarHTTP
	Sessions SessionHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", obs.RequestIDHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Calendar != nil {
		api.GET("/properties/:id/calendar", h.Calendar.Month)
		api.GET("/properties/:id/quote", h.Calendar.Quote)
	}
	if h.Sessions != nil {
		api.POST("/sessions", h.Sessions.Start)
		sessions := api.Group("/sessions/:id")
		sessions.GET("", h.Sessions.View)
		sessions.POST("/check-in", h.Sessions.SelectCheckIn)
		sessions.POST("/check-out", h.Sessions.SelectCheckOut)
		sessions.POST("/pickers/:picker/:action", h.Sessions.Picker)
		sessions.POST("/month", h.Sessions.ShowMonth)
		sessions.DELETE("/selection", h.Sessions.Clear)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
