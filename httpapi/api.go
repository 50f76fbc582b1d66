// Package httpapi exposes the application over HTTP: authentication, the
// generic per-collection CRUD surface, uploads, and report export.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetflow/auth"
	"assetflow/record"
	"assetflow/upload"
)

// API bundles the collaborators the handlers need.
type API struct {
	Auth    *auth.Service
	Store   record.Store
	Uploads upload.Store
	Logger  *slog.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(a *API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestMetrics())
	r.SetTrustedProxies(nil)

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authn := api.Group("/auth")
	{
		authn.POST("/request_otp", a.requestOTP)
		authn.POST("/verify_otp", a.verifyOTP)
		authn.POST("/signup", a.signup)
		authn.POST("/login", a.login)
		authn.POST("/logout", a.logout)
	}

	protected := api.Group("")
	protected.Use(a.requireUser())
	{
		protected.GET("/user/me", a.currentUser)
		protected.PUT("/notifications/mark_all_read", a.markAllNotificationsRead)
		protected.POST("/upload/property-image", a.uploadPropertyImage)
		protected.GET("/uploads/properties/:filename", a.servePropertyImage)
		protected.GET("/reports/assets/csv", a.exportAssetsCSV)

		protected.GET("/:collection", a.listDocuments)
		protected.POST("/:collection", a.createDocument)
		protected.GET("/:collection/:id", a.getDocument)
		protected.PUT("/:collection/:id", a.updateDocument)
		protected.DELETE("/:collection/:id", a.deleteDocument)
	}

	return r
}

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "Asset Management API is Running",
		"collections": record.Collections(),
	})
}
