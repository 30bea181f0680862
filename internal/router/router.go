package router

import (
	"fmt"
	"strings"

	"github.com/repartia/api/internal/cache"
	"github.com/repartia/api/internal/config"
	apihandlers "github.com/repartia/api/internal/http/handlers/api"
	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine and wires all routes
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "rp"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("username")), handler.Login)
		}

		authed := apiV1.Group("")
		authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			authed.GET("/me", handler.Me)
			authed.GET("/me/worklist", handler.GetMyWorkList)

			authed.POST("/orders", handler.CreateOrder)
			authed.GET("/orders", handler.ListOrders)
			authed.GET("/orders/:id", handler.GetOrder)
			authed.PUT("/orders/:id", handler.UpdateOrder)
			authed.DELETE("/orders/:id", handler.DeleteOrder)
			authed.PUT("/orders/:id/assign", handler.AssignOrder)
			authed.POST("/orders/:id/auto-assign", handler.AutoAssignOrder)
			authed.PUT("/orders/:id/delivery", handler.SetOrderDelivery)
			authed.PUT("/orders/:id/lines/delivery", handler.CheckOrderLines)

			authed.GET("/clients", handler.ListClients)
			authed.GET("/clients/:id", handler.GetClient)
			authed.GET("/clients/:id/payments", handler.ListClientPayments)
			authed.POST("/clients/:id/payments", handler.CreateClientPayment)
			authed.GET("/clients/:id/special-prices", handler.ListSpecialPrices)
			authed.DELETE("/payments/:id", handler.DeletePayment)

			authed.GET("/credits", handler.ListCredits)
			authed.PUT("/credits/:id/fulfill", handler.FulfillCredit)

			authed.GET("/products", handler.ListProducts)
			authed.GET("/products/:id", handler.GetProduct)

			authed.GET("/routes", handler.ListRoutes)
			authed.POST("/routes", handler.CreateRoute)
			authed.PUT("/routes/:id", handler.UpdateRoute)
			authed.DELETE("/routes/:id", handler.DeleteRoute)

			admin := authed.Group("")
			admin.Use(AdminOnlyMiddleware())
			{
				admin.POST("/products", handler.CreateProduct)
				admin.PUT("/products/:id", handler.UpdateProduct)
				admin.POST("/clients", handler.CreateClient)
				admin.PUT("/clients/:id", handler.UpdateClient)
				admin.POST("/special-prices", handler.SetSpecialPrice)
				admin.DELETE("/clients/:id/special-prices/:product_id", handler.DeleteSpecialPrice)
			}
		}
	}

	return r
}
