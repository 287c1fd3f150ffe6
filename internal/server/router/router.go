package router

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbaye/chainboard/internal/server/handlers"
	"github.com/mbaye/chainboard/web"
)

// New wires the Gin engine with the dashboard routes and middlewares.
func New(handler *handlers.DashboardHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.tmpl")))

	r.GET("/", handler.Index)
	r.GET("/products/:id", handler.ShowProduct)
	r.POST("/products", handler.CreateProduct)
	r.POST("/products/init", handler.InitLedger)
	r.POST("/products/:id/actions/:action", handler.TakeAction)
	r.POST("/errors/dismiss", handler.DismissError)
	r.GET("/healthz", handler.Healthz)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
