package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voiceorder/version"
)

var startTime = time.Now()

// Info reports build information, uptime and the menu catalog version.
func Info(serviceName, catalogVersion string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"build":   version.Get(),
			"catalog": catalogVersion,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
