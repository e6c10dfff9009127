package auth

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewSubnetChecker guards admin endpoints: only requests whose
// X-Real-IP falls inside the trusted subnet pass. An empty or
// unparsable subnet disables the endpoints entirely.
func NewSubnetChecker(trustedSubnet string, logger *zap.SugaredLogger) gin.HandlerFunc {
	_, netMask, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		logger.Warnf("cannot parse trusted subnet %q, admin endpoints unavailable: %v", trustedSubnet, err)
	}

	return func(c *gin.Context) {
		if netMask == nil {
			logger.Error("trusted subnet is not defined")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		realIP := c.GetHeader("X-Real-IP")
		if realIP == "" {
			logger.Error("admin request: empty X-Real-IP")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		ipAddr := net.ParseIP(realIP)
		if ipAddr == nil {
			logger.Errorf("admin request: error parsing X-Real-IP %q", realIP)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if !netMask.Contains(ipAddr) {
			logger.Errorf("admin request denied: ip %s outside trusted subnet", ipAddr)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
