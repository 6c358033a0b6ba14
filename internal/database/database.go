package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"designshop/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	if IsPostgres(dsn) {
		slog.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	slog.Info("using sqlite for local development", "dsn", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        withForeignKeys(dsn),
		}),
		cfg,
	)
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// withForeignKeys enables foreign key enforcement, which sqlite leaves off
// on every new connection unless asked.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Migrate creates the schema, the partial unique index guarding a single
// pending designer request per user, and the fixed reference rows.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Both postgres and sqlite support partial indexes.
	if err := db.WithContext(ctx).Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_designer_requests_one_pending
		 ON designer_requests (user_id) WHERE status = 'pending'`,
	).Error; err != nil {
		return fmt.Errorf("create pending request index: %w", err)
	}

	return SeedReference(ctx, db)
}

// SeedReference inserts roles and user types if they are missing.
func SeedReference(ctx context.Context, db *gorm.DB) error {
	roles := append([]domain.Role(nil), domain.Roles...)
	types := append([]domain.UserType(nil), domain.UserTypes...)

	skip := clause.OnConflict{DoNothing: true}
	if err := db.WithContext(ctx).Clauses(skip).Create(&roles).Error; err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := db.WithContext(ctx).Clauses(skip).Create(&types).Error; err != nil {
		return fmt.Errorf("seed user types: %w", err)
	}
	return nil
}
