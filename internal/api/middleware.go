package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/logging"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/metrics"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/validate"
)

const validatedKey = "validated_values"

// ValidateBody validates the JSON body against e before the next handler
// runs. Invalid bodies end the request with 400 and the field messages; the
// next handler then reads the normalized values through Validated.
func ValidateBody(e *schema.Entity, clock func() time.Time, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := readBody(c)
		if err != nil {
			invalidJSON(c)
			return
		}
		res, err := validate.Validate(e, in, clock())
		if err != nil {
			fault(c, "validator fault", err, slog.String("entity", e.Name))
			return
		}
		if !res.Valid() {
			rejectFields(c, e, res.Errors, m)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": InvalidFieldsMessage,
				"errors":  res.Errors,
			})
			return
		}
		c.Set(validatedKey, res.Data)
		c.Next()
	}
}

// Validated returns the values stored by ValidateBody.
func Validated(c *gin.Context) (validate.Values, bool) {
	v, ok := c.Get(validatedKey)
	if !ok {
		return nil, false
	}
	vals, ok := v.(validate.Values)
	return vals, ok
}

func rejectFields(c *gin.Context, e *schema.Entity, fe validate.FieldErrors, m *metrics.Metrics) {
	fields := make([]string, 0, len(fe))
	for _, f := range fe {
		fields = append(fields, f.Field)
	}
	m.ObserveValidationFailure(e.Name, fields)
	logging.FromContext(c).Debug("validation failed",
		slog.String("entity", e.Name),
		slog.Any("fields", fields),
	)
}
