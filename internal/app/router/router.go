package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "marketplace_backend/internal/feature/auth/transport/handler"
	listinghandler "marketplace_backend/internal/feature/listing/transport/handler"
	"marketplace_backend/internal/platform/bearer"
	"marketplace_backend/internal/platform/http/handler"
	"marketplace_backend/internal/platform/metrics"
)

func NewRouter(authHandler *authhandler.AuthHandler, listings *listinghandler.ListingHandler,
	tokens bearer.TokenResolver, m *metrics.Metrics) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default(), m.Middleware())

	// public routes
	r.GET("/", handler.Welcome)
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	user := r.Group("/user")
	{
		user.POST("/signup", authHandler.Signup)
		user.POST("/login", authHandler.Login)
	}

	offer := r.Group("/offer")
	{
		offer.GET("", listings.Search)
		offer.GET("/:id", listings.GetByID)
		// Deleting has never required a token.
		offer.DELETE("/publish/:id", listings.Remove)

		// bearer token required
		auth := offer.Group("/publish")
		auth.Use(bearer.AuthRequired(tokens))
		{
			auth.POST("", listings.Publish)
			auth.PUT("/:id", listings.Update)
		}
	}

	r.NoRoute(handler.NoRoute)

	return r
}
