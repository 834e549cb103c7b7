package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrtools/rptracker/internal/handler"
	accountHandler "github.com/hrtools/rptracker/internal/handler/account"
	employeeHandler "github.com/hrtools/rptracker/internal/handler/employee"
	notifierHandler "github.com/hrtools/rptracker/internal/handler/notifier"
	"github.com/hrtools/rptracker/internal/middleware"
)

type Config struct {
	RateLimit middleware.RateLimiterConfig
	CORS      middleware.CORSConfig
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	accountH  *accountHandler.Handler
	employeeH *employeeHandler.Handler
	notifierH *notifierHandler.Handler
	h         *handler.Handler
}

func New(
	cfg Config,
	auth *middleware.AuthMiddleware,
	accountH *accountHandler.Handler,
	employeeH *employeeHandler.Handler,
	notifierH *notifierHandler.Handler,
	h *handler.Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimit.RPS > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}

	return &Router{
		engine:    engine,
		auth:      auth,
		accountH:  accountH,
		employeeH: employeeH,
		notifierH: notifierH,
		h:         h,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.GET("/health", r.h.HealthCheck)

	r.accountH.RegisterRoutes(api)

	protected := api.Group("", r.auth.RequireAuth())
	r.accountH.RegisterProtectedRoutes(protected)
	r.employeeH.RegisterRoutes(protected)
	r.notifierH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(port int) error {
	return r.engine.Run(fmt.Sprintf(":%d", port))
}
