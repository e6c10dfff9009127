// Package app is the HTTP surface of the shorten service, a thin gin
// layer over the mapping store. Store failures reach handlers as
// sentinel returns, never as raw database errors.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avdcouto/photoapp/internal/config"
	"github.com/avdcouto/photoapp/internal/models"
	"github.com/avdcouto/photoapp/internal/shorten"
	"github.com/avdcouto/photoapp/internal/utils"
)

const slugLength = 8

type App struct {
	config *config.ServerConfig
	store  shorten.Store
	logger *zap.SugaredLogger
}

func NewApp(config *config.ServerConfig, store shorten.Store, logger *zap.SugaredLogger) *App {
	return &App{
		config: config,
		store:  store,
		logger: logger,
	}
}

// RedirectToLong resolves a short URL and redirects, counting the
// lookup as a side effect.
func (a *App) RedirectToLong(c *gin.Context) {
	id := c.Param("id")

	longURL := a.store.Lookup(c.Request.Context(), id)
	if longURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Location", longURL)
	c.Status(http.StatusTemporaryRedirect)
}

// ShortenURL creates a mapping. The short URL is caller-chosen or a
// generated slug; a short URL already mapped to a different long URL
// is a conflict.
func (a *App) ShortenURL(c *gin.Context) {
	var req models.ShortenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Message: "invalid request body"})
		return
	}
	if req.LongURL == "" {
		c.JSON(http.StatusBadRequest, models.ErrorRes{Message: "long_url is required"})
		return
	}

	id := req.ShortURL
	if id == "" {
		generated, err := utils.GenerateRandomString(slugLength)
		if err != nil {
			a.logger.Errorf("error generating slug: %v", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		id = generated
	}

	if !a.store.Put(c.Request.Context(), id, req.LongURL) {
		c.JSON(http.StatusConflict, models.ErrorRes{Message: "short url already taken"})
		return
	}

	c.JSON(http.StatusCreated, models.ShortenRes{ShortURL: id, LongURL: req.LongURL})
}

// Stats reports how many times a short URL has been looked up.
func (a *App) Stats(c *gin.Context) {
	id := c.Param("id")

	count := a.store.Stats(c.Request.Context(), id)
	if count == shorten.StatsNotFound {
		c.JSON(http.StatusNotFound, models.ErrorRes{Message: "no such short url"})
		return
	}

	c.JSON(http.StatusOK, models.StatsRes{ShortURL: id, LookupCount: count})
}

// Reset deletes every mapping. Guarded by the trusted-subnet checker
// in the router.
func (a *App) Reset(c *gin.Context) {
	if !a.store.Reset(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, models.ErrorRes{Message: "reset failed"})
		return
	}
	c.Status(http.StatusOK)
}

// Ping reports whether the backing store is reachable.
func (a *App) Ping(c *gin.Context) {
	if err := a.store.Ping(c.Request.Context()); err != nil {
		a.logger.Errorf("error pinging store: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}
