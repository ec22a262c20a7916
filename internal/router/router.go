package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/OpenNSW/cdn/internal/auth"
	"github.com/OpenNSW/cdn/internal/config"
	"github.com/OpenNSW/cdn/internal/middleware"
	"github.com/OpenNSW/cdn/internal/uploads"
)

// New builds the gin engine serving the upload, health and file routes.
func New(cfg *config.Config, h *uploads.HTTPHandler) (*gin.Engine, error) {
	r := gin.New()
	// X-Forwarded-For is only honoured when a proxy is explicitly trusted.
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.MaxMultipartMemory = 32 << 20

	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(),
		middleware.CORS(&cfg.CORS),
	)

	r.POST("/upload/", auth.RequireBearer(cfg.Auth.Secret), h.Upload)
	r.GET("/health", h.Health)
	r.GET("/:filename", h.Download)
	r.HEAD("/:filename", h.Download)
	r.NoRoute(h.NotFound)

	return r, nil
}
