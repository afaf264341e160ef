package router

import (
	"fmt"
	"strings"

	"github.com/boutique-next/internal/cache"
	"github.com/boutique-next/internal/config"
	adminhandlers "github.com/boutique-next/internal/http/handlers/admin"
	publichandlers "github.com/boutique-next/internal/http/handlers/public"
	"github.com/boutique-next/internal/logger"
	"github.com/boutique-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "btq"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）- 必须放在最前面
	r.Static("/uploads", cfg.Upload.Dir)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商品目录（公开）
		catalog := apiV1.Group("/products")
		{
			catalog.GET("", publicHandler.ListProducts)
			catalog.GET("/:id", publicHandler.GetProduct)
		}

		// 购物车与结账（匿名或登录均可，基于会话 cookie）
		shop := apiV1.Group("")
		shop.Use(CartSessionMiddleware(cfg.Session))
		shop.Use(OptionalUserJWTMiddleware(cfg.Session.SecretKey, c.UserRepo))
		{
			shop.GET("/cart", publicHandler.GetCart)
			shop.POST("/cart/items", publicHandler.AddToCart)
			shop.PUT("/cart/items/:productId", publicHandler.UpdateCartLine)
			shop.DELETE("/cart/items/:productId", publicHandler.RemoveCartLine)
			shop.DELETE("/cart", publicHandler.ClearCart)
			shop.POST("/checkout", publicHandler.Checkout)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.Session.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.POST("/auth/logout", publicHandler.Logout)
			user.GET("/me/orders", publicHandler.ListMyOrders)
			user.GET("/me/orders/:id", publicHandler.GetMyOrder)
			user.PUT("/me/orders/:id", publicHandler.UpdateMyOrderQuantity)
			user.DELETE("/me/orders/:id", publicHandler.DeleteMyOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.Session.SecretKey, c.UserRepo), AdminRoleMiddleware(c.UserRepo))
		{
			// 仪表盘
			admin.GET("/dashboard", adminHandler.Dashboard)

			// 商品管理
			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/stock", adminHandler.AdjustProductStock)

			// 订单管理
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PUT("/orders/:id", adminHandler.UpdateOrder)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)
			admin.DELETE("/orders", adminHandler.DeleteAllOrders)

			// 用户管理
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PUT("/users/:id/role", adminHandler.SetUserRole)
			admin.PUT("/users/:id/active", adminHandler.SetUserActive)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
