package api

import (
	"time" // CORS preflight cache

	"bank_api/internal/middleware" // Custom package for middleware

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
)

// NewRouter wires every route onto a fresh gin engine
func NewRouter(d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Recovery(), cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/healthz", HealthHandler(d))

	// User routes
	r.GET("/users", ListUsersHandler(d))
	r.GET("/users/:username", GetUserHandler(d))
	r.POST("/users", RegisterHandler(d))
	r.POST("/users/update-password", UpdatePasswordHandler(d))
	r.POST("/users/update-username", UpdateUsernameHandler(d))
	r.DELETE("/users/delete", DeleteUserHandler(d))
	r.POST("/login", LoginHandler(d))

	// Bank account routes
	r.GET("/accounts/:user_id", GetBankAccountHandler(d))
	r.POST("/create-bank-account", CreateBankAccountHandler(d))

	// Token-protected routes
	auth := middleware.JWTAuthMiddleware(d.TokenSecret)
	r.GET("/check-token", auth, middleware.LoadUserMiddleware(d.Repo, false), CheckTokenHandler())
	r.POST("/accounts/deposit", auth, middleware.LoadUserMiddleware(d.Repo, true), DepositHandler(d))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
