package app

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/avdcouto/photoapp/internal/middleware/auth"
	ginLogger "github.com/avdcouto/photoapp/internal/middleware/logger"
)

func (a *App) SetupRouter() (*gin.Engine, error) {
	r := gin.New()
	if a.config.ProfileMode {
		pprof.Register(r)
	}

	r.Use(ginLogger.Logger(a.logger.Named("middleware")))
	r.Use(auth.NewVisitorMiddleware(a.config.Secret, a.logger.Named("auth_middleware")))

	r.GET("/ping", a.Ping)
	r.GET("/:id", a.RedirectToLong)

	api := r.Group("/api")
	{
		api.POST("/shorten", a.ShortenURL)
		api.GET("/stats/:id", a.Stats)
		api.DELETE("/links",
			auth.NewSubnetChecker(a.config.TrustedSubnet, a.logger.Named("subnet")),
			a.Reset)
	}

	return r, nil
}
