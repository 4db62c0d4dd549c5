package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dskvich/phone-shop-assistant/pkg/logger"
)

func NewRouter(handlers *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	api := router.Group("/api")
	{
		api.POST("/chat", handlers.HandleChat)
		api.GET("/phones", handlers.HandlePhones)
		api.GET("/phones/:id", handlers.HandlePhone)
		api.DELETE("/sessions/:id", handlers.HandleClearSession)
		api.GET("/health", handlers.HandleHealth)
	}

	return router
}

// requestID tags every request context so log lines from one turn can be
// correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.ContextWithRequestID(c.Request.Context(), uuid.NewString())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
