package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/logging"
)

// InvalidFieldsMessage is the summary sent with a 400 field-error body.
const InvalidFieldsMessage = "Um ou mais campos estão com dados incorretos."

var internalError = gin.H{"error": "Internal server error"}

// parseID accepts positive decimal integers only.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// readBody decodes a JSON object; an empty body or "null" is an empty object.
func readBody(c *gin.Context) (map[string]any, error) {
	var obj map[string]any
	if err := c.ShouldBindJSON(&obj); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

func invalidJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
}

// fault logs the cause and answers a generic 500.
func fault(c *gin.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.Any("error", err))
	logging.FromContext(c).Error(msg, attrs...)
	c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
}
