package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/service/users"
	"go.uber.org/zap"
)

const userContextKey = "currentUser"

// Authenticate resolves the Bearer token into a user and stores it on the
// request context. Downstream handlers read it with currentUser; role
// checks stay in the services.
func Authenticate(service users.UserUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			writeError(c, domain.ErrUnauthenticated)
			c.Abort()
			return
		}
		user, err := service.UserByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(userContextKey, *user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// RequestLogger logs every request with method, path, status and latency.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
