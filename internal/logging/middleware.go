package logging

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
	requestIDKey    = "request_id"
)

// Middleware tags every request with an id, stores a request-scoped logger
// in the context and logs completion at a level chosen by status class.
func Middleware(base *slog.Logger, ids *IDSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = ids.New()
		}
		c.Header(RequestIDHeader, id)
		c.Set(requestIDKey, id)

		l := base.With(slog.String("request_id", id))
		c.Set(loggerKey, l)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.Int("size", c.Writer.Size()),
		}
		if route := c.FullPath(); route != "" {
			attrs = append(attrs, slog.String("route", route))
		}
		switch {
		case status >= 500:
			l.Error("request completed with server error", attrs...)
		case status >= 400:
			l.Warn("request completed with client error", attrs...)
		default:
			l.Info("request completed", attrs...)
		}
	}
}

// Recovery turns a handler panic into a logged generic 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				FromContext(c).Error("panic recovered",
					slog.Any("panic", p),
					slog.String("stack", string(buf[:n])),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// FromContext returns the request logger, or slog.Default outside Middleware.
func FromContext(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
