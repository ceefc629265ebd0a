package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter returns a gin engine with recovery, access logs and the routes
// of s.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog())
	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/render", s.render)
		api.GET("/qr", qrHandler)
		if s.store != nil {
			api.GET("/images/:id", s.image)
		}
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
