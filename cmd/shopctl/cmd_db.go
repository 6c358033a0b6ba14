package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"designshop/internal/config"
	"designshop/internal/database"
	"designshop/internal/domain"
	"designshop/internal/pkg/logger"
	"designshop/internal/repository"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.AppEnv)
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

// shopctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, log, err := bootDB()
		if err != nil {
			return err
		}
		log.Info("running migrations")
		return database.Migrate(ctx, db)
	},
}

var seedPassword string

// shopctl seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users, categories and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, log, err := bootDB()
		if err != nil {
			return err
		}
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		return seed(ctx, db, log, seedPassword)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPassword, "password", "p", "demo123", "Password for every demo user")
}

type demoUser struct {
	username string
	role     domain.RoleID
	types    []domain.UserTypeID
}

var demoUsers = []demoUser{
	{"admin", domain.RoleAdministrator, nil},
	{"manager", domain.RoleManagement, nil},
	{"designer", domain.RoleRegular, []domain.UserTypeID{domain.UserTypeDesigner}},
	{"customer", domain.RoleRegular, []domain.UserTypeID{domain.UserTypeCustomer}},
}

var demoProducts = []struct {
	category string
	name     string
	price    float64
}{
	{"Apparel", "Classic T-Shirt", 19.90},
	{"Apparel", "Hoodie", 39.00},
	{"Drinkware", "Ceramic Mug", 9.90},
	{"Drinkware", "Travel Tumbler", 24.50},
	{"Accessories", "Canvas Tote", 12.50},
}

// seed is idempotent: users are matched by email, categories and products
// by name.
func seed(ctx context.Context, db *gorm.DB, log *slog.Logger, password string) error {
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	var managerID *int64
	for _, du := range demoUsers {
		email := du.username + "@designshop.local"
		u, err := users.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			u = &domain.User{Username: du.username, Email: email, PasswordHash: string(hash), RoleID: du.role}
			if err := users.Create(ctx, u, du.types...); err != nil {
				return fmt.Errorf("create %s: %w", du.username, err)
			}
			log.Info("user created", "email", email, "role", du.role.Name())
		case err != nil:
			return err
		default:
			log.Info("user exists", "email", email)
		}
		if du.role == domain.RoleManagement {
			id := u.ID
			managerID = &id
		}
	}

	categories := map[string]int64{}
	for _, p := range demoProducts {
		catID, ok := categories[p.category]
		if !ok {
			cat := domain.Category{Name: p.category, ManagerID: managerID}
			if err := db.WithContext(ctx).Where("name = ?", p.category).FirstOrCreate(&cat).Error; err != nil {
				return fmt.Errorf("category %s: %w", p.category, err)
			}
			catID = cat.ID
			categories[p.category] = catID
		}

		var n int64
		if err := db.WithContext(ctx).Model(&domain.Product{}).Where("name = ?", p.name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		id := catID
		if err := products.Create(ctx, &domain.Product{Name: p.name, BasePrice: p.price, CategoryID: &id}); err != nil {
			return fmt.Errorf("product %s: %w", p.name, err)
		}
		log.Info("product created", "name", p.name, "price", p.price)
	}
	return nil
}
