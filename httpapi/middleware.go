package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"assetflow/record"
)

const ctxUserKey = "httpapi.user"

// requireUser resolves the claimed identity to an active session and full
// user record, aborting with 401 otherwise. The claim arrives either as the
// X-User-Email header or as a Bearer session token.
func (a *API) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed := c.GetHeader("X-User-Email")
		if claimed == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				if email, err := a.Auth.EmailFromToken(strings.TrimPrefix(h, "Bearer ")); err == nil {
					claimed = email
				}
			}
		}

		user, err := a.Auth.Resolve(c.Request.Context(), claimed)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// requestUser returns the resolved user document set by requireUser.
func requestUser(c *gin.Context) record.Document {
	v, _ := c.Get(ctxUserKey)
	user, _ := v.(record.Document)
	return user
}

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assetflow_http_requests_total",
	Help: "HTTP requests by method, route, and status code.",
}, []string{"method", "path", "status"})

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
