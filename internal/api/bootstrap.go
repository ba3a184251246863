package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/auth"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/models"
)

type AdminAccount struct {
	Username string
	Password string
	Email    string
}

// EnsureAdmin creates the first administrator when the users table is empty.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, users UserRepo, acc AdminAccount, log *slog.Logger) (bool, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if acc.Username == "" || acc.Password == "" {
		return false, errors.New("no users yet: admin username and password are required")
	}
	hash, err := auth.HashPassword(acc.Password)
	if err != nil {
		return false, err
	}
	u := &models.User{
		Fullname: "Administrador do Sistema",
		Username: acc.Username,
		Email:    acc.Email,
		Password: hash,
		IsAdmin:  true,
	}
	if err := users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	log.Info("bootstrap admin created", slog.String("username", u.Username))
	return true, nil
}
