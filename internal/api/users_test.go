package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/auth"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/models"
)

const adminPassword = "Segr3d0!forte"

func newAuthServer(t *testing.T) (*testServer, *auth.Issuer) {
	t.Helper()
	iss, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	ts := newTestServer(t, iss)
	created, err := EnsureAdmin(context.Background(), ts.users, AdminAccount{
		Username: "admin", Password: adminPassword, Email: "admin@example.com",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.True(t, created)
	return ts, iss
}

func login(t *testing.T, ts *testServer, username, password string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/users/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.NotContains(t, string(resp.User), "password")
	return resp.Token
}

func userBody(username string) map[string]any {
	return map[string]any{
		"fullname": "Joana Prado",
		"username": username,
		"email":    username + "@example.com",
		"password": "Abcdef1!",
		"is_admin": false,
	}
}

func TestEnsureAdminOnlyOnEmptyTable(t *testing.T) {
	ts, _ := newAuthServer(t)
	created, err := EnsureAdmin(context.Background(), ts.users, AdminAccount{Username: "other", Password: "x"}, slog.Default())
	require.NoError(t, err)
	assert.False(t, created)

	u, err := ts.users.FindBy(context.Background(), "username", "admin")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "Administrador do Sistema", u.Fullname)
	assert.NotEqual(t, adminPassword, u.Password)
}

func TestEnsureAdminNeedsCredentials(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := EnsureAdmin(context.Background(), ts.users, AdminAccount{Username: "admin"}, slog.Default())
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	ts, iss := newAuthServer(t)
	token := login(t, ts, "admin", adminPassword)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.IsAdmin)

	for _, creds := range [][2]string{{"admin", "wrong"}, {"ghost", adminPassword}, {"", ""}} {
		w := ts.do(t, http.MethodPost, "/users/login", map[string]string{"username": creds[0], "password": creds[1]})
		assert.Equal(t, http.StatusUnauthorized, w.Code, creds[0])
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	ts, _ := newAuthServer(t)
	for _, path := range []string{"/customers", "/cars", "/users", "/users/me"} {
		w := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := ts.do(t, http.MethodGet, "/cars", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// open routes
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/meta", nil).Code)
}

func TestUsersRequireAdmin(t *testing.T) {
	ts, _ := newAuthServer(t)
	admin := login(t, ts, "admin", adminPassword)

	w := ts.do(t, http.MethodPost, "/users", userBody("joana.prado"), admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	joana := login(t, ts, "joana.prado", "Abcdef1!")
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/users", nil, joana).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/cars", nil, joana).Code)

	w = ts.do(t, http.MethodGet, "/users/me", nil, joana)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "joana.prado", me.Username)
	assert.False(t, me.IsAdmin)

	w = ts.do(t, http.MethodGet, "/users", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUserUpdateKeepsPasswordWhenAbsent(t *testing.T) {
	ts, _ := newAuthServer(t)
	admin := login(t, ts, "admin", adminPassword)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/users", userBody("joana.prado"), admin).Code)
	u, err := ts.users.FindBy(context.Background(), "username", "joana.prado")
	require.NoError(t, err)

	body := userBody("joana.prado")
	delete(body, "password")
	body["fullname"] = "Joana Prado Lima"
	w := ts.do(t, http.MethodPut, "/users/"+itoa(u.ID), body, admin)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	login(t, ts, "joana.prado", "Abcdef1!")

	body["password"] = "Novasenh@9"
	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPut, "/users/"+itoa(u.ID), body, admin).Code)
	login(t, ts, "joana.prado", "Novasenh@9")

	// creating still needs a password
	delete(body, "password")
	body["username"] = "outro.user"
	body["email"] = "outro@example.com"
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/users", body, admin).Code)
}

func TestMultibytePasswordIsFieldError(t *testing.T) {
	ts, _ := newAuthServer(t)
	admin := login(t, ts, "admin", adminPassword)
	body := userBody("joana.prado")
	body["password"] = "Aa1!" + strings.Repeat("é", 46)

	w := ts.do(t, http.MethodPost, "/users", body, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"message": "Um ou mais campos estão com dados incorretos.",
		"errors": {"password": "A senha contém caracteres acentuados demais."}
	}`, w.Body.String())
}

func TestDuplicateUsernameIsConflict(t *testing.T) {
	ts, _ := newAuthServer(t)
	admin := login(t, ts, "admin", adminPassword)
	body := userBody("admin")
	w := ts.do(t, http.MethodPost, "/users", body, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Conflict"}`, w.Body.String())
}
