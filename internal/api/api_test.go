package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/auth"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/metrics"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/models"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/reference"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type testServer struct {
	router    *gin.Engine
	db        *gorm.DB
	deps      Deps
	customers *store.Repository[models.Customer]
	cars      *store.Repository[models.Car]
	users     *store.Repository[models.User]
}

func newTestServer(t *testing.T, iss *auth.Issuer) *testServer {
	t.Helper()
	db, err := store.Open(store.Options{Driver: store.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	sc, err := models.NewSchemas(reference.MustBuiltin())
	require.NoError(t, err)

	ts := &testServer{
		db:        db,
		customers: store.NewRepository[models.Customer](db, "name"),
		cars:      store.NewRepository[models.Car](db, "brand"),
		users:     store.NewRepository[models.User](db, "fullname"),
	}
	ts.deps = Deps{
		Schemas:   sc,
		Catalog:   reference.MustBuiltin(),
		Customers: ts.customers,
		Cars:      ts.cars,
		Users:     ts.users,
		Issuer:    iss,
		Metrics:   metrics.New(),
		Clock:     clock,
	}
	ts.router = NewRouter(ts.deps)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func carBody() map[string]any {
	return map[string]any{
		"brand":            "Volkswagen",
		"model":            "Fusca",
		"color":            "AZUL",
		"year_manufacture": 1975,
		"imported":         false,
		"plates":           "ABC-1D23",
		"selling_date":     "2024-01-10",
		"selling_price":    25000,
		"customer_id":      "",
	}
}

func customerBody() map[string]any {
	return map[string]any{
		"name":           "Maria Silva",
		"ident_document": "529.982.247-25",
		"birth_date":     "1990-06-01T03:00:00.000Z",
		"street_name":    "Rua das Flores",
		"house_number":   "123",
		"complements":    "",
		"district":       "Centro",
		"municipality":   "Franca",
		"state":          "SP",
		"phone":          "(16) 99999-8888",
		"email":          "maria@example.com",
	}
}

func (ts *testServer) seedCustomer(t *testing.T) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Name: "Maria Silva", IdentDocument: "529.982.247-25", StreetName: "Rua A", HouseNumber: "1",
		District: "Centro", Municipality: "Franca", State: "SP", Phone: "(16) 99999-8888", Email: "maria@example.com",
	}
	require.NoError(t, ts.customers.Create(context.Background(), c))
	return c
}
