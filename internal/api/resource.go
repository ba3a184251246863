package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/logging"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/metrics"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/store"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/validate"
)

// Repo is the persistence collaborator of a Resource.
type Repo[T any] interface {
	Create(ctx context.Context, rec *T) error
	List(ctx context.Context, include ...string) ([]T, error)
	Get(ctx context.Context, id int64, include ...string) (*T, error)
	Update(ctx context.Context, id int64, rec *T, omit ...string) error
	Delete(ctx context.Context, id int64) error
}

// Mode picks where a resource validates bodies and how it reports failures.
type Mode int

const (
	// ModeDirect validates inside the handler and answers 422 with an issue list.
	ModeDirect Mode = iota
	// ModeMiddleware validates in ValidateBody and answers 400 with a field map.
	ModeMiddleware
)

// Resource serves CRUD routes for one entity.
type Resource[T any] struct {
	Schema *schema.Entity
	// UpdateSchema validates PUT bodies; nil means Schema.
	UpdateSchema *schema.Entity
	Repo         Repo[T]
	Build        func(validate.Values) (*T, error)
	// Include maps ?include= values to associations.
	Include map[string]string
	// UpdateOmit names columns an update must leave untouched.
	UpdateOmit func(validate.Values) []string
	Mode       Mode
	Clock      func() time.Time
	Metrics    *metrics.Metrics
}

// Register mounts the routes on g; guards run before every handler.
func (r *Resource[T]) Register(g *gin.RouterGroup, guards ...gin.HandlerFunc) {
	chain := func(h ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), h...)
	}
	create, update := chain(r.Create), chain(r.Update)
	if r.Mode == ModeMiddleware {
		create = chain(ValidateBody(r.Schema, r.now, r.Metrics), r.Create)
		update = chain(ValidateBody(r.updateSchema(), r.now, r.Metrics), r.Update)
	}
	g.POST("", create...)
	g.GET("", chain(r.RetrieveAll)...)
	g.GET("/:id", chain(r.RetrieveOne)...)
	g.PUT("/:id", update...)
	g.DELETE("/:id", chain(r.Delete)...)
}

func (r *Resource[T]) Create(c *gin.Context) {
	vals, ok := r.values(c, r.Schema)
	if !ok {
		return
	}
	rec, err := r.Build(vals)
	if err != nil {
		fault(c, "build record failed", err, r.attrs()...)
		return
	}
	if err := r.Repo.Create(c.Request.Context(), rec); err != nil {
		r.writeFailed(c, "create", err)
		return
	}
	c.Status(http.StatusCreated)
}

func (r *Resource[T]) RetrieveAll(c *gin.Context) {
	list, err := r.Repo.List(c.Request.Context(), r.includes(c)...)
	if err != nil {
		fault(c, "list failed", err, r.attrs()...)
		return
	}
	if list == nil {
		list = []T{}
	}
	c.JSON(http.StatusOK, list)
}

func (r *Resource[T]) RetrieveOne(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	rec, err := r.Repo.Get(c.Request.Context(), id, r.includes(c)...)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.Status(http.StatusNotFound)
	case err != nil:
		fault(c, "get failed", err, append(r.attrs(), slog.Int64("id", id))...)
	default:
		c.JSON(http.StatusOK, rec)
	}
}

// Update validates before looking the record up, so an invalid body for a
// missing id is reported as a validation failure.
func (r *Resource[T]) Update(c *gin.Context) {
	vals, ok := r.values(c, r.updateSchema())
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	rec, err := r.Build(vals)
	if err != nil {
		fault(c, "build record failed", err, r.attrs()...)
		return
	}
	var omit []string
	if r.UpdateOmit != nil {
		omit = r.UpdateOmit(vals)
	}
	if err := r.Repo.Update(c.Request.Context(), id, rec, omit...); err != nil {
		r.writeFailed(c, "update", err, slog.Int64("id", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Resource[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	if err := r.Repo.Delete(c.Request.Context(), id); err != nil {
		r.writeFailed(c, "delete", err, slog.Int64("id", id))
		return
	}
	c.Status(http.StatusNoContent)
}

// values returns the validated body, answering the request itself on failure.
func (r *Resource[T]) values(c *gin.Context, e *schema.Entity) (validate.Values, bool) {
	if r.Mode == ModeMiddleware {
		if vals, ok := Validated(c); ok {
			return vals, true
		}
	}
	in, err := readBody(c)
	if err != nil {
		invalidJSON(c)
		return nil, false
	}
	res, err := validate.Validate(e, in, r.now())
	if err != nil {
		fault(c, "validator fault", err, r.attrs()...)
		return nil, false
	}
	if res.Valid() {
		return res.Data, true
	}
	rejectFields(c, e, res.Errors, r.Metrics)
	if r.Mode == ModeMiddleware {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": InvalidFieldsMessage, "errors": res.Errors})
	} else {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, res.Errors.Issues())
	}
	return nil, false
}

func (r *Resource[T]) writeFailed(c *gin.Context, op string, err error, attrs ...any) {
	attrs = append(r.attrs(), attrs...)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logging.FromContext(c).Debug(op+": record not found", attrs...)
		c.Status(http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		logging.FromContext(c).Info(op+": conflict", append(attrs, slog.Any("error", err))...)
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Conflict"})
	default:
		fault(c, op+" failed", err, attrs...)
	}
}

func (r *Resource[T]) includes(c *gin.Context) []string {
	q := c.Query("include")
	if q == "" || len(r.Include) == 0 {
		return nil
	}
	var out []string
	for _, name := range strings.Split(q, ",") {
		if rel, ok := r.Include[strings.TrimSpace(name)]; ok {
			out = append(out, rel)
		}
	}
	return out
}

func (r *Resource[T]) updateSchema() *schema.Entity {
	if r.UpdateSchema != nil {
		return r.UpdateSchema
	}
	return r.Schema
}

func (r *Resource[T]) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *Resource[T]) attrs() []any {
	return []any{slog.String("entity", r.Schema.Name)}
}
