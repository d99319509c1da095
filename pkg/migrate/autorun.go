package migrate

import (
	"context"
	"fmt"

	"github.com/giftconnect/giftconnect-backend/pkg/config"
	"github.com/giftconnect/giftconnect-backend/pkg/db"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
)

// skipReason explains why boot-time migrations are off, or returns "" when
// they should run. Sqlite schemas come from AutoMigrate instead.
func skipReason(cfg *config.Config) string {
	switch {
	case cfg == nil:
		return "no config"
	case !cfg.Storage.UsesSQL():
		return "memory storage"
	case cfg.DB.IsSQLite():
		return "sqlite uses gorm automigrate"
	case !cfg.App.IsDev():
		return "not a dev environment"
	case !cfg.FeatureFlags.AutoMigrate:
		return "auto migrate flag off"
	}
	return ""
}

// ShouldAutoRun reports whether goose migrations run when the API boots.
func ShouldAutoRun(cfg *config.Config) bool {
	return skipReason(cfg) == ""
}

// MaybeRunDev validates the migrations directory and applies it when
// ShouldAutoRun allows.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if reason := skipReason(cfg); reason != "" {
		logg.Debug(logg.WithField(ctx, "reason", reason), "skipping boot migrations")
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	if err := ValidateDir(DefaultDir); err != nil {
		return fmt.Errorf("boot migrations: %w", err)
	}

	conn, err := client.SQL()
	if err != nil {
		return fmt.Errorf("boot migrations: %w", err)
	}

	logg.Info(ctx, "applying goose migrations")
	if err := Run(ctx, conn, DialectFor(client.Driver()), DefaultDir, "up"); err != nil {
		return fmt.Errorf("boot migrations: %w", err)
	}
	logg.Info(ctx, "goose migrations applied")
	return nil
}
