package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/config"
	"github.com/spec-kit/trend-blog/internal/domain"
)

// EnsureAdminUser provisions an approved admin account from env config so a
// fresh deployment has someone able to approve registrations. No-op when the
// account already exists or seeding is not configured.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, logger *zap.Logger) error {
	if pool == nil || cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email=$1`, cfg.Seed.AdminEmail).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
        INSERT INTO users (name, email, password_hash, approved_yn, role)
        VALUES ($1, $2, $3, $4, $5)`,
		cfg.Seed.AdminName, cfg.Seed.AdminEmail, hash, domain.ApprovedYes, domain.RoleAdmin,
	)
	if err != nil {
		return err
	}

	logger.Info("seeded admin account", zap.String("email", cfg.Seed.AdminEmail))
	return nil
}
