// api/router.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/auth"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/logging"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/metrics"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/models"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/reference"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/validate"
)

type Deps struct {
	Schemas   *models.Schemas
	Catalog   reference.Catalog
	Customers Repo[models.Customer]
	Cars      Repo[models.Car]
	Users     UserRepo

	// Issuer nil leaves every route open.
	Issuer  *auth.Issuer
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Clock   func() time.Time
	// Health reports database reachability for /healthz.
	Health func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}

	r := gin.New()
	r.Use(logging.Middleware(d.Logger, logging.NewIDSource()), logging.Recovery(), d.Metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				logging.FromContext(c).Warn("health check failed", slog.Any("error", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	reg := d.Schemas.Registry()
	r.GET("/meta", MetaListHandler(reg))
	r.GET("/meta/:entity", MetaEntityHandler(reg, d.Clock))
	r.GET("/meta/catalogs/:name", MetaCatalogHandler(d.Catalog))

	var authed, admin []gin.HandlerFunc
	if d.Issuer != nil {
		authed = []gin.HandlerFunc{auth.Middleware(d.Issuer)}
		admin = append(authed, auth.RequireAdmin())
		r.POST("/users/login", LoginHandler(d.Users, d.Issuer))
		r.GET("/users/me", append(authed, MeHandler(d.Users))...)
	}

	customers := &Resource[models.Customer]{
		Schema:  d.Schemas.Customer,
		Repo:    d.Customers,
		Build:   func(v validate.Values) (*models.Customer, error) { return models.NewCustomer(v), nil },
		Include: map[string]string{"cars": "Cars"},
		Mode:    ModeDirect,
		Clock:   d.Clock,
		Metrics: d.Metrics,
	}
	cars := &Resource[models.Car]{
		Schema:  d.Schemas.Car,
		Repo:    d.Cars,
		Build:   func(v validate.Values) (*models.Car, error) { return models.NewCar(v), nil },
		Include: map[string]string{"customer": "Customer"},
		Mode:    ModeMiddleware,
		Clock:   d.Clock,
		Metrics: d.Metrics,
	}
	users := &Resource[models.User]{
		Schema:       d.Schemas.User,
		UpdateSchema: d.Schemas.UserUpdate,
		Repo:         d.Users,
		Build:        buildUser,
		UpdateOmit:   keepPassword,
		Mode:         ModeMiddleware,
		Clock:        d.Clock,
		Metrics:      d.Metrics,
	}

	customers.Register(r.Group("/customers"), authed...)
	cars.Register(r.Group("/cars"), authed...)
	users.Register(r.Group("/users"), admin...)

	return r
}
