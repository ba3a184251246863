package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/auth"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/logging"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/models"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/store"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/validate"
)

type UserRepo interface {
	Repo[models.User]
	FindBy(ctx context.Context, column string, value any) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// buildUser hashes the password; an update without password keeps the stored hash.
func buildUser(v validate.Values) (*models.User, error) {
	u := models.NewUser(v)
	if u.Password == "" {
		return u, nil
	}
	h, err := auth.HashPassword(u.Password)
	if err != nil {
		return nil, err
	}
	u.Password = h
	return u, nil
}

func keepPassword(v validate.Values) []string {
	if v.Has("password") {
		return nil
	}
	return []string{"password"}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginHandler POST /users/login
func LoginHandler(users UserRepo, iss *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidJSON(c)
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" || req.Password == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		u, err := users.FindBy(c.Request.Context(), "username", username)
		if err == nil {
			err = auth.CheckPassword(u.Password, req.Password)
		}
		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, auth.ErrBadCredentials):
			logging.FromContext(c).Info("login rejected", slog.String("username", username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		case err != nil:
			fault(c, "login failed", err)
			return
		}

		token, err := iss.Issue(u.ID, u.Username, u.IsAdmin)
		if err != nil {
			fault(c, "issue token failed", err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
	}
}

// MeHandler GET /users/me
func MeHandler(users UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		u, err := users.Get(c.Request.Context(), claims.UserID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// token outlived its user
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		case err != nil:
			fault(c, "load current user failed", err)
		default:
			c.JSON(http.StatusOK, u)
		}
	}
}
